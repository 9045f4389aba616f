package storage

import (
	"civiceye/backend/internal/models"
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Storage is the complaint repository used by the complaint service.
// Lookups that find nothing return (nil, nil); any error is a store failure.
type Storage interface {
	// ValidID reports whether id is well-formed under this store's identifier scheme.
	ValidID(id string) bool

	GetUserByID(ctx context.Context, id string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error

	CreateComplaint(ctx context.Context, complaint *models.Complaint) error
	UpdateComplaint(ctx context.Context, complaint *models.Complaint) error
	GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error)
	ListComplaints(ctx context.Context) ([]models.Complaint, error)
	ListComplaintsByUser(ctx context.Context, userID string) ([]models.Complaint, error)

	Ping(ctx context.Context) error
	Close() error
}

// Service is the gorm-backed Storage (PostgreSQL in production, SQLite for
// local runs and tests). Identifiers are UUID strings.
type Service struct {
	DB *gorm.DB
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Migrate creates or updates the tables for every model.
func (s *Service) Migrate() error {
	return s.DB.AutoMigrate(
		&models.User{},
		&models.Complaint{},
	)
}

func (s *Service) ValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// GetUserByID повертає користувача за ID або nil, якщо його немає.
func (s *Service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to get user %s: %v", id, err)
		return nil, err
	}
	return &user, nil
}

// SaveUser зберігає користувача в PostgreSQL
func (s *Service) SaveUser(ctx context.Context, user *models.User) error {
	return s.DB.WithContext(ctx).Save(user).Error
}

func (s *Service) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	if complaint.Status == "" {
		complaint.Status = models.StatusPending
	}

	if err := s.DB.WithContext(ctx).Create(complaint).Error; err != nil {
		log.Printf("ERROR: Failed to save complaint for user %s: %v", complaint.UserID, err)
		return err
	}
	return nil
}

// UpdateComplaint writes every column of the complaint, so a nil ResolvedAt
// is stored as NULL.
func (s *Service) UpdateComplaint(ctx context.Context, complaint *models.Complaint) error {
	if complaint.ID == "" {
		return fmt.Errorf("update complaint: missing id")
	}
	return s.DB.WithContext(ctx).Save(complaint).Error
}

// GetComplaintByID повертає скаргу за ID або nil, якщо запис не знайдено.
func (s *Service) GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&complaint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to get complaint %s: %v", id, err)
		return nil, err
	}
	return &complaint, nil
}

// ListComplaints returns every complaint, newest first.
func (s *Service) ListComplaints(ctx context.Context) ([]models.Complaint, error) {
	complaints := []models.Complaint{}
	if err := s.DB.WithContext(ctx).Order("created_at desc").Find(&complaints).Error; err != nil {
		log.Printf("ERROR: Failed to list complaints: %v", err)
		return nil, err
	}
	return complaints, nil
}

// ListComplaintsByUser returns the complaints filed by userID, newest first.
// A user with no complaints gets an empty slice.
func (s *Service) ListComplaintsByUser(ctx context.Context, userID string) ([]models.Complaint, error) {
	complaints := []models.Complaint{}
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&complaints).Error
	if err != nil {
		log.Printf("ERROR: Failed to list complaints for user %s: %v", userID, err)
		return nil, err
	}
	return complaints, nil
}

func (s *Service) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Service) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
