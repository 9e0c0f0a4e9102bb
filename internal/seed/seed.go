// Package seed provides database seeding utilities for development and
// testing.
package seed

import (
	"fmt"
	"log"
	"time"

	"docmanager/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumClients   int
	NumDocuments int
	NumRequests  int
	ShouldClean  bool
}

// Seeder populates the database with development data.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a seeder for the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

var documentTypes = []string{
	"Memorandum", "Special Orders", "Resolution", "Travel Order", "Circular",
}

var colleges = []string{
	"Engineering", "Arts and Sciences", "Business Administration",
	"Education", "Nursing", "Law",
}

var purposes = []string{
	"Accreditation requirements", "Records verification", "Legal reference",
	"Thesis research", "Administrative filing",
}

// ClearAll removes every seeded row. Order respects foreign keys.
func (s *Seeder) ClearAll() error {
	tables := []string{
		"notifications",
		"authorization_request_units",
		"authorization_requests",
		"document_request_units",
		"document_requests",
		"documents",
		"users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	log.Println("Database cleared")
	return nil
}

// Run seeds users, documents, and a realistic mix of requests.
func (s *Seeder) Run(opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	staff, err := s.seedStaffAccounts()
	if err != nil {
		return err
	}
	clients, err := s.seedClients(opts.NumClients)
	if err != nil {
		return err
	}
	documents, err := s.seedDocuments(opts.NumDocuments)
	if err != nil {
		return err
	}
	if err := s.seedRequests(opts.NumRequests, clients, documents); err != nil {
		return err
	}

	log.Printf("Seeded %d staff accounts, %d clients, %d documents, %d requests",
		len(staff), len(clients), len(documents), opts.NumRequests)
	return nil
}

// seedStaffAccounts creates one fixed account per elevated role so the
// seeded environment is immediately usable.
func (s *Seeder) seedStaffAccounts() ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	accounts := []models.User{
		{Email: "admin@docmanager.local", FullName: "Default Admin", Role: models.RoleAdmin},
		{Email: "head@docmanager.local", FullName: "Records Head", Role: models.RoleHead},
		{Email: "staff@docmanager.local", FullName: "Records Staff", Role: models.RoleStaff},
		{Email: "planning@docmanager.local", FullName: "Planning Officer", Role: models.RolePlanning},
	}
	for i := range accounts {
		accounts[i].PasswordHash = string(hash)
		if err := s.db.Create(&accounts[i]).Error; err != nil {
			return nil, fmt.Errorf("seeding %s: %w", accounts[i].Email, err)
		}
	}
	return accounts, nil
}

func (s *Seeder) seedClients(n int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	clients := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		user := models.User{
			Email:        fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			FullName:     gofakeit.Name(),
			PasswordHash: string(hash),
			Role:         models.RoleClient,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		clients = append(clients, user)
	}
	return clients, nil
}

func (s *Seeder) seedDocuments(n int) ([]models.Document, error) {
	documents := make([]models.Document, 0, n)
	for i := 0; i < n; i++ {
		uploaded := gofakeit.DateRange(
			time.Now().AddDate(-3, 0, 0),
			time.Now(),
		)
		doc := models.Document{
			Name:          fmt.Sprintf("%s No. %d s. %d", gofakeit.RandomString(documentTypes), i+1, uploaded.Year()),
			DocumentType:  gofakeit.RandomString(documentTypes),
			SentFrom:      gofakeit.Company(),
			DocumentMonth: uploaded.Month().String(),
			DocumentYear:  fmt.Sprintf("%d", uploaded.Year()),
			Subject:       gofakeit.Sentence(6),
			NumberPages:   gofakeit.Number(1, 40),
			OCRMetadata:   gofakeit.Paragraph(1, 3, 12, " "),
			FilePath:      fmt.Sprintf("documents/seeded/%d/%s.pdf", uploaded.Year(), gofakeit.UUID()),
		}
		if err := s.db.Create(&doc).Error; err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}
	return documents, nil
}

func (s *Seeder) seedRequests(n int, clients []models.User, documents []models.Document) error {
	if len(clients) == 0 || len(documents) == 0 {
		return nil
	}

	statuses := []models.DocumentRequestStatus{
		models.DocumentRequestStatusUnclaimed,
		models.DocumentRequestStatusUnclaimed,
		models.DocumentRequestStatusApproved,
		models.DocumentRequestStatusDenied,
		models.DocumentRequestStatusClaimed,
	}

	for i := 0; i < n; i++ {
		client := clients[gofakeit.Number(0, len(clients)-1)]
		status := statuses[gofakeit.Number(0, len(statuses)-1)]

		units := make([]models.DocumentRequestUnit, 0, 3)
		for j := 0; j < gofakeit.Number(1, 3); j++ {
			doc := documents[gofakeit.Number(0, len(documents)-1)]
			units = append(units, models.DocumentRequestUnit{
				DocumentID: doc.ID,
				Copies:     gofakeit.Number(1, 5),
			})
		}

		request := models.DocumentRequest{
			RequesterID: client.ID,
			College:     gofakeit.RandomString(colleges),
			Type:        models.DocumentRequestTypeHardcopy,
			Purpose:     gofakeit.RandomString(purposes),
			Status:      status,
			Units:       units,
		}
		if status == models.DocumentRequestStatusDenied {
			request.Remarks = gofakeit.Sentence(8)
		}
		if err := s.db.Create(&request).Error; err != nil {
			return err
		}
	}
	return nil
}
