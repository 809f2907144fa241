package notifications

import (
	"context"
	"fmt"
	"log"
	"sync"

	"tourly/internal/shared/config"
)

type NotificationService interface {
	SendNotification(ctx context.Context, notification *EmailNotification) error
	SendBatchNotifications(ctx context.Context, notifications []*EmailNotification) error

	Start(ctx context.Context) error
	Stop() error
	HealthCheck(ctx context.Context) error
}

type ServiceConfig struct {
	KafkaBrokers       []string
	NotificationTopic  string
	ConsumerGroupID    string
	NumConsumerWorkers int
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	SMTPFromEmail      string
	SMTPFromName       string
}

// NewServiceConfig maps the application config onto the notification pipeline
func NewServiceConfig(cfg *config.Config) *ServiceConfig {
	return &ServiceConfig{
		KafkaBrokers:       cfg.Kafka.Brokers,
		NotificationTopic:  cfg.Kafka.NotificationTopic,
		ConsumerGroupID:    cfg.Kafka.ConsumerGroupID,
		NumConsumerWorkers: cfg.Kafka.ConsumerWorkers,
		SMTPHost:           cfg.Email.SMTPHost,
		SMTPPort:           cfg.Email.SMTPPort,
		SMTPUsername:       cfg.Email.SMTPUsername,
		SMTPPassword:       cfg.Email.SMTPPassword,
		SMTPFromEmail:      cfg.Email.FromEmail,
		SMTPFromName:       "Tourly",
	}
}

type EmailNotificationService struct {
	config       *ServiceConfig
	producer     NotificationProducer
	consumer     NotificationConsumer
	emailService EmailService

	isRunning bool
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewEmailNotificationService(config *ServiceConfig) (NotificationService, error) {
	if config.SMTPHost == "" || config.SMTPUsername == "" {
		return nil, fmt.Errorf("SMTP configuration is required: missing SMTP_HOST or SMTP_USERNAME")
	}

	smtpConfig := &SMTPConfig{
		Host:      config.SMTPHost,
		Port:      config.SMTPPort,
		Username:  config.SMTPUsername,
		Password:  config.SMTPPassword,
		FromEmail: config.SMTPFromEmail,
		FromName:  config.SMTPFromName,
		UseTLS:    true,
	}
	emailService, err := NewSMTPEmailService(smtpConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP email service: %w", err)
	}

	producerConfig := DefaultKafkaProducerConfig()
	producerConfig.Brokers = config.KafkaBrokers
	producerConfig.NotificationTopic = config.NotificationTopic

	producer, err := NewKafkaNotificationProducer(producerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification producer: %w", err)
	}

	consumerConfig := DefaultConsumerConfig()
	consumerConfig.Brokers = config.KafkaBrokers
	consumerConfig.Topics = []string{config.NotificationTopic}
	consumerConfig.GroupID = config.ConsumerGroupID

	consumer, err := NewKafkaNotificationConsumer(consumerConfig, emailService)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification consumer: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	log.Printf("Email notification service initialized (Host: %s, Port: %d)", config.SMTPHost, config.SMTPPort)

	return &EmailNotificationService{
		config:       config,
		producer:     producer,
		consumer:     consumer,
		emailService: emailService,
		ctx:          ctx,
		cancel:       cancel,
	}, nil
}

func (ens *EmailNotificationService) Start(ctx context.Context) error {
	ens.mu.Lock()
	defer ens.mu.Unlock()

	if ens.isRunning {
		return fmt.Errorf("notification service is already running")
	}

	log.Printf("Starting email notification service...")

	if err := ens.consumer.StartConsumers(ens.ctx, ens.config.NumConsumerWorkers); err != nil {
		return fmt.Errorf("failed to start consumers: %w", err)
	}

	ens.isRunning = true
	log.Printf("Email notification service started")

	return nil
}

func (ens *EmailNotificationService) Stop() error {
	ens.mu.Lock()
	defer ens.mu.Unlock()

	if !ens.isRunning {
		return fmt.Errorf("notification service is not running")
	}

	log.Printf("Stopping email notification service...")

	ens.cancel()

	if err := ens.consumer.Stop(); err != nil {
		log.Printf("Error stopping consumer: %v", err)
	}

	if err := ens.producer.Close(); err != nil {
		log.Printf("Error closing producer: %v", err)
	}

	ens.isRunning = false
	log.Printf("Email notification service stopped")

	return nil
}

func (ens *EmailNotificationService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	return ens.producer.PublishNotification(ctx, notification)
}

func (ens *EmailNotificationService) SendBatchNotifications(ctx context.Context, notifications []*EmailNotification) error {
	return ens.producer.PublishBatchNotifications(ctx, notifications)
}

func (ens *EmailNotificationService) HealthCheck(ctx context.Context) error {
	ens.mu.RLock()
	isRunning := ens.isRunning
	ens.mu.RUnlock()

	if !isRunning {
		return fmt.Errorf("notification service is not running")
	}

	if err := ens.producer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("producer health check failed: %w", err)
	}

	if err := ens.consumer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("consumer health check failed: %w", err)
	}

	return nil
}
