package main

import (
	"civiceye/backend/internal/complaint"
	"civiceye/backend/internal/config"
	"civiceye/backend/internal/models"
	"civiceye/backend/internal/proof"
	"civiceye/backend/internal/storage"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCache is a UserCache that never expires entries, the worst case for
// a role change that skips invalidation.
type memoryCache struct {
	users map[string]models.User
}

func (m *memoryCache) GetUser(_ context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memoryCache) SetUser(_ context.Context, user *models.User) error {
	m.users[user.ID] = *user
	return nil
}

func (m *memoryCache) DeleteUser(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

func setupCachedStore(t *testing.T) (storage.Storage, *memoryCache) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	base, err := storage.OpenGorm(config.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = base.Close() })

	cache := &memoryCache{users: map[string]models.User{}}
	return storage.WithUserCache(base, cache), cache
}

func TestSetRole_DemotionIsSeenByAuthorizeAdmin(t *testing.T) {
	s, cache := setupCachedStore(t)
	ctx := context.Background()
	svc := complaint.NewService(s, proof.NewStore(t.TempDir(), 1<<20), proof.NewResolver("http://test.local"))

	admin, err := createUser(ctx, s, "Officer", "officer@example.org", models.RoleAdmin)
	require.NoError(t, err)

	// Warm the cache the way the server does on an admin request.
	_, err = svc.AuthorizeAdmin(ctx, admin.ID)
	require.NoError(t, err)
	require.Contains(t, cache.users, admin.ID)

	require.NoError(t, setRole(ctx, s, admin.ID, models.RoleUser))

	_, err = svc.AuthorizeAdmin(ctx, admin.ID)
	assert.True(t, complaint.IsForbidden(err), "demoted user must lose admin access, got %v", err)
}

func TestSetRole_PromotionIsSeenByAuthorizeAdmin(t *testing.T) {
	s, _ := setupCachedStore(t)
	ctx := context.Background()
	svc := complaint.NewService(s, proof.NewStore(t.TempDir(), 1<<20), proof.NewResolver("http://test.local"))

	user, err := createUser(ctx, s, "Citizen", "citizen@example.org", models.RoleUser)
	require.NoError(t, err)
	_, err = svc.AuthorizeAdmin(ctx, user.ID)
	require.True(t, complaint.IsForbidden(err))

	require.NoError(t, setRole(ctx, s, user.ID, models.RoleAdmin))

	_, err = svc.AuthorizeAdmin(ctx, user.ID)
	assert.NoError(t, err)
}

func TestSetRole_UnknownUser(t *testing.T) {
	s, _ := setupCachedStore(t)
	ctx := context.Background()

	assert.Error(t, setRole(ctx, s, "not-an-id", models.RoleAdmin))
	assert.Error(t, setRole(ctx, s, "6f1c2b9e-8f0a-4c1e-9d3b-2a7e5c4d1b00", models.RoleAdmin))
}
