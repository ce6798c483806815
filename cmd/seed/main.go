// seed inserts development sample data for local testing: go run ./cmd/seed.
// Idempotent: skips inserts if the dev IT admin is already provisioned.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	carddomain "arc-staff-portal/internal/card/domain"
	cardrepo "arc-staff-portal/internal/card/repository"
	"arc-staff-portal/internal/config"
	"arc-staff-portal/internal/db"
	idpdomain "arc-staff-portal/internal/idp/domain"
	idprepo "arc-staff-portal/internal/idp/repository"
	principaldomain "arc-staff-portal/internal/principal/domain"
	principalrepo "arc-staff-portal/internal/principal/repository"
	recipientdomain "arc-staff-portal/internal/recipient/domain"
	recipientrepo "arc-staff-portal/internal/recipient/repository"
	"arc-staff-portal/internal/security"
)

const (
	// devAdminID is the plaintext IT identification number for local login.
	devAdminID    = "IT-DEV-0001"
	devAdminEmail = "itadmin@example.com"

	devStaffUID      = "dev-staff-001"
	devStaffEmail    = "staff@example.com"
	devStaffPassword = "password123"

	devRecipientID = "dev-recipient-001"
	devCardID      = "dev-card-001"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	accounts := idprepo.NewPostgresRepository(conn)
	principals := principalrepo.NewPostgresRepository(conn)
	recipients := recipientrepo.NewPostgresRepository(conn)
	cards := cardrepo.NewPostgresRepository(conn)

	adminHash, err := security.NewIDHasher(cfg.ITIDHashPepper).Hash(devAdminID)
	if err != nil {
		log.Fatalf("hash admin id: %v", err)
	}

	existing, err := principals.GetAdmin(ctx, adminHash)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (dev IT admin exists). Skipping.")
		os.Exit(0)
	}

	// IT admin: directory record plus a passwordless elevated account keyed by
	// the hashed identification number.
	if err := principals.CreateAdmin(ctx, &principaldomain.AdminRecord{
		ID:        adminHash,
		Email:     devAdminEmail,
		FirstName: "Dev",
		LastName:  "Admin",
		CreatedAt: now,
	}); err != nil {
		log.Fatalf("create dev admin: %v", err)
	}
	if err := accounts.Create(ctx, &idpdomain.Account{
		UID:         adminHash,
		Email:       devAdminEmail,
		DisplayName: "Dev Admin",
		Admin:       true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		log.Fatalf("create dev admin account: %v", err)
	}

	// Staff member sponsored by the dev admin, with password login.
	passwordHash, err := security.NewHasher(cfg.BcryptCost).Hash([]byte(devStaffPassword))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	if err := accounts.Create(ctx, &idpdomain.Account{
		UID:          devStaffUID,
		Email:        devStaffEmail,
		PasswordHash: passwordHash,
		DisplayName:  "Dev Staff",
		Admin:        false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		log.Fatalf("create staff account: %v", err)
	}
	if err := principals.CreateStaff(ctx, &principaldomain.StaffRecord{
		UID:       devStaffUID,
		Email:     devStaffEmail,
		FirstName: "Dev",
		LastName:  "Staff",
		Role:      "staff",
		CreatedBy: adminHash,
		CreatedAt: now,
	}); err != nil {
		log.Fatalf("create staff record: %v", err)
	}

	if err := recipients.Create(ctx, &recipientdomain.Recipient{
		ID:             devRecipientID,
		FirstName:      "Sam",
		SecondName:     "Example",
		GenderIdentity: "unspecified",
		Aliases:        []string{"Sammy"},
		DateOfBirth:    "1990-01-15",
		Address:        "1 Example Street",
		PostalCode:     "V6B 1A1",
		Notes:          "seeded for local development",
		CreatedBy:      devStaffUID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}); err != nil {
		log.Fatalf("create recipient: %v", err)
	}

	if err := cards.Create(ctx, &carddomain.Card{
		ID:              devCardID,
		RecipientID:     devRecipientID,
		ArcCardNumber:   "2001-0001",
		SecurityCode:    "482",
		Department:      "outreach",
		AllocationDate:  now.Format("2006-01-02"),
		Status:          carddomain.StatusActive,
		MonthsRemaining: 3,
		IssuedAt:        now,
	}); err != nil {
		log.Fatalf("create card: %v", err)
	}

	log.Println("Seed completed successfully.")
	fmt.Printf("Staff login: %s / %s\n", devStaffEmail, devStaffPassword)
	fmt.Printf("IT admin identification number: %s\n", devAdminID)
}
