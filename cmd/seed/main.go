package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"tourly/internal/payments"
	"tourly/internal/shared/config"
	"tourly/internal/shared/database"
	"tourly/internal/tours"
	"tourly/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting Tourly database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\nCleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("Database cleaned")

	fmt.Println("\nSeeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("\nSeeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"booked_seats",
		"booking_seats",
		"bookings",
		"payment_settings",
		"tours",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	if err := s.SeedTours(userIDs["admin"]); err != nil {
		return fmt.Errorf("failed to seed tours: %w", err)
	}

	if err := s.SeedPaymentSettings(userIDs["admin"]); err != nil {
		return fmt.Errorf("failed to seed payment settings: %w", err)
	}

	// Clear Redis so stale seat maps or reservations don't survive a reseed
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis: %v", err)
	}

	return nil
}

// SeedUsers creates an admin and a regular user
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key   string
		name  string
		phone string
		email string
		role  users.Role
	}{
		{"admin", "Admin User", "+8801700000001", "admin@tourly.app", users.RoleAdmin},
		{"user1", "Test Customer", "+8801700000002", "customer@tourly.app", users.RoleUser},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			Name:      userData.name,
			Phone:     userData.phone,
			Email:     userData.email,
			Password:  string(hashedPassword),
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

// SeedTours creates sample tours, with and without seat selection
func (s *Seeder) SeedTours(adminID uuid.UUID) error {
	fmt.Println("  Seeding tours...")

	toursData := []struct {
		name             string
		description      string
		from             string
		to               string
		daysFromNow      int
		durationDays     int
		price            float64
		status           tours.Status
		hasSeatSelection bool
		busCount         int
	}{
		{
			name:             "Sajek Valley Adventure",
			description:      "Three days in the hills with sunrise views from Konglak Para.",
			from:             "Dhaka",
			to:               "Sajek",
			daysFromNow:      14,
			durationDays:     3,
			price:            7500,
			status:           tours.StatusActive,
			hasSeatSelection: true,
			busCount:         2,
		},
		{
			name:             "Cox's Bazar Beach Escape",
			description:      "Long weekend on the world's longest natural sea beach.",
			from:             "Dhaka",
			to:               "Cox's Bazar",
			daysFromNow:      21,
			durationDays:     4,
			price:            9800,
			status:           tours.StatusActive,
			hasSeatSelection: true,
			busCount:         1,
		},
		{
			name:             "Sundarbans Boat Safari",
			description:      "River cruise through the mangroves. Travel is by boat, so no bus seats to pick.",
			from:             "Khulna",
			to:               "Sundarbans",
			daysFromNow:      30,
			durationDays:     2,
			price:            12500,
			status:           tours.StatusActive,
			hasSeatSelection: false,
			busCount:         1,
		},
		{
			name:             "Sylhet Tea Garden Trail",
			description:      "Draft itinerary for the upcoming tea garden trip.",
			from:             "Dhaka",
			to:               "Sylhet",
			daysFromNow:      45,
			durationDays:     3,
			price:            6900,
			status:           tours.StatusDraft,
			hasSeatSelection: true,
			busCount:         1,
		},
	}

	for _, tourData := range toursData {
		start := time.Now().AddDate(0, 0, tourData.daysFromNow)
		tour := tours.Tour{
			ID:                  uuid.New(),
			Name:                tourData.name,
			Description:         tourData.description,
			FromCity:            tourData.from,
			ToCity:              tourData.to,
			StartDate:           start,
			EndDate:             start.AddDate(0, 0, tourData.durationDays),
			Price:               tourData.price,
			Status:              tourData.status,
			HasBusSeatSelection: tourData.hasSeatSelection,
			BusCount:            tourData.busCount,
			CreatedBy:           adminID,
		}

		if err := s.db.PostgreSQL.Create(&tour).Error; err != nil {
			return fmt.Errorf("failed to create tour %s: %w", tour.Name, err)
		}

		fmt.Printf("    Created tour: %s (%s, %d bus(es))\n", tour.Name, tour.Status, tour.BusCount)
	}

	return nil
}

// SeedPaymentSettings creates the payment settings row
func (s *Seeder) SeedPaymentSettings(adminID uuid.UUID) error {
	fmt.Println("  Seeding payment settings...")

	settings := payments.PaymentSettings{
		ID:            1,
		ManualPayment: true,
		BkashPayment:  true,
		BkashNumber:   "01700000000",
		Instructions:  "Send the full amount and submit the transaction ID with your booking.",
		UpdatedBy:     &adminID,
	}

	if err := s.db.PostgreSQL.Create(&settings).Error; err != nil {
		return fmt.Errorf("failed to create payment settings: %w", err)
	}

	fmt.Println("    Created payment settings")
	return nil
}
