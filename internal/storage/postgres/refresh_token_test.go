package postgres

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nlanzo/recipe-app/internal/models"
	"github.com/nlanzo/recipe-app/internal/storage"
)

// hashRefresh — helper для вычисления хэша из plain (sha256 → base64url),
// тот же формат, что использует сервисный слой.
func hashRefresh(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func seedToken(t *testing.T, st *Storage, userID int64, plain string, expiresAt time.Time, revoked bool) string {
	t.Helper()

	hash := hashRefresh(plain)
	require.NoError(t, st.SaveRefreshToken(context.Background(), &models.RefreshToken{
		TokenHash: hash,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt,
		Revoked:   revoked,
	}))
	return hash
}

func TestIntegration_SaveRefreshToken_And_GetByHash_OK(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	userID := seedUser(t, st, "token-owner@example.com")

	now := time.Now().UTC()
	hash := seedToken(t, st, userID, "plain-refresh-1", now.Add(time.Hour), false)

	got, err := st.RefreshTokenByHash(ctx, hash)
	require.NoError(t, err)

	require.Equal(t, hash, got.TokenHash)
	require.Equal(t, userID, got.UserID)
	require.False(t, got.Revoked)
	require.WithinDuration(t, now, got.CreatedAt, 2*time.Second)
	require.WithinDuration(t, now.Add(time.Hour), got.ExpiresAt, 2*time.Second)
}

func TestIntegration_SaveRefreshToken_UniqueViolation(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	userID := seedUser(t, st, "dup-token@example.com")

	now := time.Now().UTC()
	hash := seedToken(t, st, userID, "dup-refresh", now.Add(10*time.Minute), false)

	// Повтор с тем же token_hash.
	err := st.SaveRefreshToken(ctx, &models.RefreshToken{
		TokenHash: hash,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(20 * time.Minute),
	})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestIntegration_RefreshTokenByHash_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	_, err := st.RefreshTokenByHash(context.Background(), hashRefresh("missing"))
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_RevokeRefreshToken_Idempotent(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	userID := seedUser(t, st, "revoke@example.com")

	hash := seedToken(t, st, userID, "to-revoke", time.Now().UTC().Add(time.Hour), false)

	require.NoError(t, st.RevokeRefreshToken(ctx, hash))

	got, err := st.RefreshTokenByHash(ctx, hash)
	require.NoError(t, err)
	require.True(t, got.Revoked)

	// Повторный отзыв и отзыв неизвестного хэша — no-op.
	require.NoError(t, st.RevokeRefreshToken(ctx, hash))
	require.NoError(t, st.RevokeRefreshToken(ctx, hashRefresh("never-existed")))
}

func TestIntegration_PurgeExpiredOrRevoked(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	userID := seedUser(t, st, "purge@example.com")
	now := time.Now().UTC()

	liveHash := seedToken(t, st, userID, "live", now.Add(time.Hour), false)
	expiredHash := seedToken(t, st, userID, "expired", now.Add(-time.Hour), false)
	revokedHash := seedToken(t, st, userID, "revoked", now.Add(time.Hour), true)

	deleted, err := st.PurgeExpiredOrRevoked(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(2), deleted)

	// Живой токен уцелел, остальные удалены.
	_, err = st.RefreshTokenByHash(ctx, liveHash)
	require.NoError(t, err)

	_, err = st.RefreshTokenByHash(ctx, expiredHash)
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.RefreshTokenByHash(ctx, revokedHash)
	require.ErrorIs(t, err, storage.ErrNotFound)

	// Повторная очистка ничего не находит.
	deleted, err = st.PurgeExpiredOrRevoked(ctx, now)
	require.NoError(t, err)
	require.Zero(t, deleted)
}

func TestIntegration_CascadeDeleteUserRemovesTokens(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	userID := seedUser(t, st, "cascade@example.com")
	hash := seedToken(t, st, userID, "cascade-token", time.Now().UTC().Add(time.Hour), false)

	_, err := st.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	require.NoError(t, err)

	_, err = st.RefreshTokenByHash(ctx, hash)
	require.ErrorIs(t, err, storage.ErrNotFound)
}
