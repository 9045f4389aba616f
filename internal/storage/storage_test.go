package storage_test

import (
	"civiceye/backend/internal/config"
	"civiceye/backend/internal/models"
	"civiceye/backend/internal/storage"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *storage.Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	s, err := storage.OpenGorm(config.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestService_ValidID(t *testing.T) {
	s := &storage.Service{}

	assert.True(t, s.ValidID(uuid.New().String()))
	assert.False(t, s.ValidID(""))
	assert.False(t, s.ValidID("abc"))
	assert.False(t, s.ValidID("507f1f77bcf86cd799439011"))
	// uuid.Parse accepts the braced and urn forms; the store does not.
	assert.False(t, s.ValidID("{"+uuid.New().String()+"}"))
}

func TestService_UserRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := &models.User{Name: "Taras", Email: "taras@example.org"}
	require.NoError(t, s.SaveUser(ctx, u))
	require.NotEmpty(t, u.ID)

	got, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Taras", got.Name)
	assert.Equal(t, models.RoleUser, got.Role)

	got.Role = models.RoleAdmin
	require.NoError(t, s.SaveUser(ctx, got))
	again, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, again.IsAdmin())

	missing, err := s.GetUserByID(ctx, uuid.New().String())
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestService_ComplaintLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	name := "1700000000000-abcd1234.jpg"
	c := &models.Complaint{UserID: "u1", Type: "Pothole", Description: "Deep", Proof: &name}
	require.NoError(t, s.CreateComplaint(ctx, c))
	require.NotEmpty(t, c.ID)
	assert.Equal(t, models.StatusPending, c.Status)
	assert.False(t, c.CreatedAt.IsZero())

	got, err := s.GetComplaintByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.Proof)
	assert.Equal(t, name, *got.Proof)
	assert.Nil(t, got.ResolvedAt)

	got.SetStatus(models.StatusResolved, time.Now())
	require.NoError(t, s.UpdateComplaint(ctx, got))
	resolved, err := s.GetComplaintByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, resolved.Status)
	assert.NotNil(t, resolved.ResolvedAt)

	resolved.SetStatus(models.StatusRejected, time.Now())
	require.NoError(t, s.UpdateComplaint(ctx, resolved))
	rejected, err := s.GetComplaintByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Nil(t, rejected.ResolvedAt, "resolvedAt must be written back as NULL")
	assert.Equal(t, "u1", rejected.UserID)

	missing, err := s.GetComplaintByID(ctx, uuid.New().String())
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestService_UpdateComplaintRequiresID(t *testing.T) {
	s := openTestStore(t)
	err := s.UpdateComplaint(context.Background(), &models.Complaint{Type: "Pothole"})
	assert.Error(t, err)
}

func TestService_ListingsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, owner := range []string{"u1", "u2", "u1", "u1"} {
		c := &models.Complaint{UserID: owner, Type: fmt.Sprintf("T%d", i), CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, s.CreateComplaint(ctx, c))
	}

	all, err := s.ListComplaints(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []string{"T3", "T2", "T1", "T0"}, types(all))

	mine, err := s.ListComplaintsByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"T3", "T2", "T0"}, types(mine))

	none, err := s.ListComplaintsByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestService_EmptyListIsNotNil(t *testing.T) {
	s := openTestStore(t)

	all, err := s.ListComplaints(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Len(t, all, 0)
}

func TestService_Ping(t *testing.T) {
	s := openTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := storage.Open(context.Background(), &config.Config{StoreDriver: "cassandra"})
	assert.Error(t, err)

	_, err = storage.OpenGorm(config.DriverMongo, "whatever")
	assert.Error(t, err)
}

func types(cs []models.Complaint) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Type
	}
	return out
}
