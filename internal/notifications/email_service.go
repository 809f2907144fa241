package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strconv"
	"time"
)

// EmailService interface for sending emails
type EmailService interface {
	SendNotification(ctx context.Context, notification *EmailNotification) error
	SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
	Timeout   time.Duration
}

// SMTPEmailService is a real SMTP implementation of the EmailService interface
type SMTPEmailService struct {
	config    *SMTPConfig
	templates map[NotificationType]*template.Template
}

// NewSMTPEmailService creates a new SMTP email service
func NewSMTPEmailService(config *SMTPConfig) (*SMTPEmailService, error) {
	if err := validateSMTPConfig(config); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}

	service := &SMTPEmailService{
		config:    config,
		templates: make(map[NotificationType]*template.Template),
	}
	service.loadDefaultTemplates()

	return service, nil
}

func validateSMTPConfig(config *SMTPConfig) error {
	if config == nil {
		return fmt.Errorf("SMTP config is nil")
	}
	if config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if config.Username == "" {
		return fmt.Errorf("SMTP username is required")
	}
	if config.Password == "" {
		return fmt.Errorf("SMTP password is required")
	}
	if config.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

// SendNotification sends a booking lifecycle notification via email
func (s *SMTPEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	log.Printf("[SMTP] Sending %s notification to %s (%s)",
		notification.Type,
		notification.RecipientEmail,
		notification.RecipientName,
	)

	htmlBody, textBody, err := s.generateContent(notification)
	if err != nil {
		return fmt.Errorf("failed to generate email content: %w", err)
	}

	return s.SendHTML(ctx, notification.RecipientEmail, notification.Subject, htmlBody, textBody)
}

// SendHTML sends an HTML email with a plain-text alternative
func (s *SMTPEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
	message := s.buildMessage(to, subject, htmlBody, textBody)

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var err error
	if s.config.UseTLS {
		err = s.sendWithSTARTTLS(addr, auth, to, message)
	} else {
		err = smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
	}

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("[SMTP] Email sent successfully to %s", to)
	return nil
}

// sendWithSTARTTLS sends email with STARTTLS encryption (recommended for Gmail)
func (s *SMTPEmailService) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	tlsconfig := &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         s.config.Host,
	}

	if err = client.StartTLS(tlsconfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return w.Close()
}

// buildMessage creates the email message with proper headers
func (s *SMTPEmailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Date"] = time.Now().Format(time.RFC1123Z)

	boundary := "boundary_" + strconv.FormatInt(time.Now().UnixNano(), 10)
	headers["Content-Type"] = fmt.Sprintf("multipart/alternative; boundary=%s", boundary)

	message := ""
	for k, v := range headers {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n"

	if textBody != "" {
		message += fmt.Sprintf("--%s\r\n", boundary)
		message += "Content-Type: text/plain; charset=UTF-8\r\n"
		message += "\r\n"
		message += textBody + "\r\n"
	}

	if htmlBody != "" {
		message += fmt.Sprintf("--%s\r\n", boundary)
		message += "Content-Type: text/html; charset=UTF-8\r\n"
		message += "\r\n"
		message += htmlBody + "\r\n"
	}

	message += fmt.Sprintf("--%s--\r\n", boundary)

	return []byte(message)
}

// generateContent renders the notification body from its type template
func (s *SMTPEmailService) generateContent(notification *EmailNotification) (string, string, error) {
	tmpl, exists := s.templates[notification.Type]
	if !exists {
		// Fall back to a plain rendering of the template data
		text := fmt.Sprintf("Hello %s,\n\nBooking %s: %s.\n",
			notification.RecipientName, notification.BookingRef, notification.Type)
		return "", text, nil
	}

	data := map[string]interface{}{
		"RecipientName": notification.RecipientName,
		"BookingRef":    notification.BookingRef,
		"TourName":      notification.TourName,
	}
	for k, v := range notification.TemplateData {
		data[k] = v
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&htmlBuf, "html", data); err != nil {
		return "", "", err
	}
	if err := tmpl.ExecuteTemplate(&textBuf, "text", data); err != nil {
		textBuf.Reset()
		textBuf.WriteString("Please view this email in HTML format.")
	}

	return htmlBuf.String(), textBuf.String(), nil
}

// loadDefaultTemplates registers the built-in booking email templates
func (s *SMTPEmailService) loadDefaultTemplates() {
	s.templates[NotificationTypeBookingCreated] = template.Must(template.New("booking_created").Parse(`
{{define "html"}}<h2>Booking Received</h2>
<p>Hello {{.RecipientName}},</p>
<p>We received your booking <strong>{{.BookingRef}}</strong> for <strong>{{.TourName}}</strong>.</p>
<p>Please complete your payment within 30 minutes to keep your booking. You can check its status at any time with your booking reference.</p>{{end}}
{{define "text"}}Hello {{.RecipientName}},

We received your booking {{.BookingRef}} for {{.TourName}}.
Please complete your payment within 30 minutes to keep your booking.{{end}}`))

	s.templates[NotificationTypeBookingApproved] = template.Must(template.New("booking_approved").Parse(`
{{define "html"}}<h2>Booking Confirmed</h2>
<p>Hello {{.RecipientName}},</p>
<p>Your booking <strong>{{.BookingRef}}</strong> for <strong>{{.TourName}}</strong> has been confirmed. See you there!</p>{{end}}
{{define "text"}}Hello {{.RecipientName}},

Your booking {{.BookingRef}} for {{.TourName}} has been confirmed. See you there!{{end}}`))

	s.templates[NotificationTypeBookingRejected] = template.Must(template.New("booking_rejected").Parse(`
{{define "html"}}<h2>Booking Not Approved</h2>
<p>Hello {{.RecipientName}},</p>
<p>Unfortunately we could not approve your booking <strong>{{.BookingRef}}</strong> for <strong>{{.TourName}}</strong>. If you believe this is a mistake, please contact us with your booking reference.</p>{{end}}
{{define "text"}}Hello {{.RecipientName}},

Unfortunately we could not approve your booking {{.BookingRef}} for {{.TourName}}.
If you believe this is a mistake, please contact us with your booking reference.{{end}}`))

	s.templates[NotificationTypeBookingExpired] = template.Must(template.New("booking_expired").Parse(`
{{define "html"}}<h2>Booking Expired</h2>
<p>Hello {{.RecipientName}},</p>
<p>Your booking <strong>{{.BookingRef}}</strong> for <strong>{{.TourName}}</strong> expired because payment was not confirmed in time. Your seats have been released; you are welcome to book again.</p>{{end}}
{{define "text"}}Hello {{.RecipientName}},

Your booking {{.BookingRef}} for {{.TourName}} expired because payment was not confirmed in time.
Your seats have been released; you are welcome to book again.{{end}}`))
}
