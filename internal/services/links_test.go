package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"linkforge/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkService_Convert(t *testing.T) {
	db := setupTestDB(t)
	service := NewLinkService(db, "https://short.ly/", "https://bi-kay.com/")
	alice := createTestUser(t, db, "alice", models.RoleUser)
	ctx := context.Background()

	t.Run("Random alias", func(t *testing.T) {
		link, err := service.Convert(ctx, alice.ID, "http://x.com")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(link.ConvertedLink, "https://short.ly/"))
		assert.Len(t, strings.TrimPrefix(link.ConvertedLink, "https://short.ly/"), 5)
		assert.Equal(t, alice.ID, link.UserID)
	})

	t.Run("Duplicate aliases are accepted", func(t *testing.T) {
		orig := service.codeGenerator
		service.codeGenerator = func(int) string { return "dupe1" }
		defer func() { service.codeGenerator = orig }()

		first, err := service.Convert(ctx, alice.ID, "http://a.com")
		require.NoError(t, err)
		second, err := service.Convert(ctx, alice.ID, "http://b.com")
		require.NoError(t, err)
		assert.Equal(t, first.ConvertedLink, second.ConvertedLink)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("DB error", func(t *testing.T) {
		dbErr := setupTestDB(t)
		require.NoError(t, dbErr.Migrator().DropTable(&models.Link{}))
		_, err := NewLinkService(dbErr, "", "").Convert(ctx, 1, "http://x.com")
		assert.Error(t, err)
	})
}

func TestLinkService_CustomAlias(t *testing.T) {
	db := setupTestDB(t)
	service := NewLinkService(db, "https://short.ly/", "https://bi-kay.com/")
	alice := createTestUser(t, db, "alice", models.RoleUser)
	bob := createTestUser(t, db, "bob", models.RoleUser)
	ctx := context.Background()

	link, err := service.CreateCustomAlias(ctx, alice.ID, "https://example.com", "promo")
	require.NoError(t, err)
	assert.Equal(t, "promo", link.CustomLink)
	assert.Equal(t, "https://bi-kay.com/promo", service.CustomURL(link.CustomLink))

	t.Run("Same owner same alias conflicts", func(t *testing.T) {
		_, err := service.CreateCustomAlias(ctx, alice.ID, "https://other.com", "promo")
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("Other owner same alias succeeds", func(t *testing.T) {
		_, err := service.CreateCustomAlias(ctx, bob.ID, "https://other.com", "promo")
		assert.NoError(t, err)
	})

	t.Run("ListOwn ordered and scoped", func(t *testing.T) {
		_, err := service.CreateCustomAlias(ctx, alice.ID, "https://second.com", "second")
		require.NoError(t, err)

		links, err := service.ListOwn(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, links, 2)
		assert.Equal(t, "promo", links[0].CustomLink)
		assert.Equal(t, "second", links[1].CustomLink)

		links, err = service.ListOwn(ctx, bob.ID)
		require.NoError(t, err)
		assert.Len(t, links, 1)
	})

	t.Run("ListOwn empty", func(t *testing.T) {
		links, err := service.ListOwn(ctx, 999)
		require.NoError(t, err)
		assert.Empty(t, links)
	})
}

func TestLinkService_ListAll(t *testing.T) {
	db := setupTestDB(t)
	service := NewLinkService(db, "https://short.ly/", "")
	alice := createTestUser(t, db, "alice", models.RoleUser)
	bob := createTestUser(t, db, "bob", models.RoleUser)
	createTestUser(t, db, "nolinks", models.RoleUser)
	ctx := context.Background()

	codes := []string{"aaaaa", "bbbbb", "ccccc"}
	service.codeGenerator = func(int) string {
		c := codes[0]
		codes = codes[1:]
		return c
	}

	_, err := service.Convert(ctx, alice.ID, "http://x.com")
	require.NoError(t, err)
	_, err = service.Convert(ctx, bob.ID, "http://y.com")
	require.NoError(t, err)
	// later row for the same original wins
	_, err = service.Convert(ctx, alice.ID, "http://x.com")
	require.NoError(t, err)

	users, err := service.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	aliceEntry := users["user_1"]
	assert.Equal(t, "alice", aliceEntry.Username)
	assert.Equal(t, map[string]string{"http://x.com": "https://short.ly/ccccc"}, aliceEntry.Links)

	bobEntry := users["user_2"]
	assert.Equal(t, "bob", bobEntry.Username)
	assert.Equal(t, map[string]string{"http://y.com": "https://short.ly/bbbbb"}, bobEntry.Links)
}

func TestLinkService_UpdateDelete(t *testing.T) {
	db := setupTestDB(t)
	service := NewLinkService(db, "https://short.ly/", "")
	alice := createTestUser(t, db, "alice", models.RoleUser)
	ctx := context.Background()

	link, err := service.Convert(ctx, alice.ID, "http://x.com")
	require.NoError(t, err)

	t.Run("Get", func(t *testing.T) {
		got, err := service.Get(ctx, link.ID)
		require.NoError(t, err)
		assert.Equal(t, link.ConvertedLink, got.ConvertedLink)

		_, err = service.Get(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Update", func(t *testing.T) {
		require.NoError(t, service.Update(ctx, link.ID, "http://new.com", "https://short.ly/new01"))

		got, err := service.Get(ctx, link.ID)
		require.NoError(t, err)
		assert.Equal(t, "http://new.com", got.OriginalLink)
		assert.Equal(t, "https://short.ly/new01", got.ConvertedLink)
	})

	t.Run("Update missing", func(t *testing.T) {
		assert.ErrorIs(t, service.Update(ctx, 999, "a", "b"), ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, service.Delete(ctx, link.ID))
		_, err := service.Get(ctx, link.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete missing", func(t *testing.T) {
		assert.ErrorIs(t, service.Delete(ctx, link.ID), ErrNotFound)
	})

	t.Run("DB errors", func(t *testing.T) {
		require.NoError(t, db.Migrator().DropTable(&models.Link{}))

		err := service.Update(ctx, 1, "a", "b")
		assert.Error(t, err)
		assert.False(t, errors.Is(err, ErrNotFound))

		err = service.Delete(ctx, 1)
		assert.Error(t, err)
		assert.False(t, errors.Is(err, ErrNotFound))

		_, err = service.ListAll(ctx)
		assert.Error(t, err)
	})
}
