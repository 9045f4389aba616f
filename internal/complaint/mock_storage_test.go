package complaint_test

import (
	"civiceye/backend/internal/models"
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of storage.Storage.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) ValidID(id string) bool {
	args := m.Called(id)
	return args.Bool(0)
}

func (m *MockStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) SaveUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStorage) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	args := m.Called(ctx, complaint)
	return args.Error(0)
}

func (m *MockStorage) UpdateComplaint(ctx context.Context, complaint *models.Complaint) error {
	args := m.Called(ctx, complaint)
	return args.Error(0)
}

func (m *MockStorage) GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) ListComplaints(ctx context.Context) ([]models.Complaint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) ListComplaintsByUser(ctx context.Context, userID string) ([]models.Complaint, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStorage) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockProofStore is a testify mock of complaint.ProofStore.
type MockProofStore struct {
	mock.Mock
}

func (m *MockProofStore) Save(userID, originalName string, src io.Reader) (string, error) {
	args := m.Called(userID, originalName, src)
	return args.String(0), args.Error(1)
}

func (m *MockProofStore) Remove(userID, name string) error {
	args := m.Called(userID, name)
	return args.Error(0)
}

// MockNotifier is a testify mock of complaint.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) ComplaintFiled(ctx context.Context, c *models.Complaint) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockNotifier) StatusChanged(ctx context.Context, c *models.Complaint, previous models.Status) error {
	args := m.Called(ctx, c, previous)
	return args.Error(0)
}
