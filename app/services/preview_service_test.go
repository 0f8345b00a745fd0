package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"folio/app/config"
	"folio/app/repositories/mock"
)

func TestPreviewAuthorize(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-secret"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name   string
		cfg    config.PreviewConfig
		secret string
		want   bool
	}{
		{name: "no secret configured", cfg: config.PreviewConfig{}, secret: "anything", want: false},
		{name: "plain match", cfg: config.PreviewConfig{Secret: "s3cret"}, secret: "s3cret", want: true},
		{name: "plain mismatch", cfg: config.PreviewConfig{Secret: "s3cret"}, secret: "s3cre", want: false},
		{name: "empty attempt", cfg: config.PreviewConfig{Secret: "s3cret"}, secret: "", want: false},
		{name: "hash match", cfg: config.PreviewConfig{SecretHash: string(hash)}, secret: "hashed-secret", want: true},
		{name: "hash mismatch", cfg: config.PreviewConfig{SecretHash: string(hash)}, secret: "wrong", want: false},
		{
			name:   "hash wins over plain secret",
			cfg:    config.PreviewConfig{Secret: "plain", SecretHash: string(hash)},
			secret: "plain",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewPreviewService(tt.cfg, mock.NewPreviewSessionRepository(), nil)
			assert.Equal(t, tt.want, service.Authorize(tt.secret))
		})
	}
}

func TestPreviewSessions(t *testing.T) {
	repo := mock.NewPreviewSessionRepository()
	service := NewPreviewService(config.PreviewConfig{Secret: "s3cret", TTL: time.Hour}, repo, nil)

	t.Run("start and end", func(t *testing.T) {
		session, err := service.StartSession("10.0.0.1:1234")
		require.NoError(t, err)
		assert.NotEmpty(t, session.ID)
		assert.Equal(t, time.Hour, session.ExpiresAt.Sub(session.CreatedAt))
		assert.True(t, service.IsActive(session.ID))

		require.NoError(t, service.EndSession(session.ID))
		assert.False(t, service.IsActive(session.ID))
	})

	t.Run("unknown and empty ids", func(t *testing.T) {
		assert.False(t, service.IsActive(""))
		assert.False(t, service.IsActive("missing"))
		assert.NoError(t, service.EndSession(""))
		assert.NoError(t, service.EndSession("missing"))
	})

	t.Run("expiry", func(t *testing.T) {
		session, err := service.StartSession("10.0.0.1:1234")
		require.NoError(t, err)

		later := time.Now().Add(2 * time.Hour)
		service.now = func() time.Time { return later }
		repo.Now = func() time.Time { return later }
		t.Cleanup(func() {
			service.now = time.Now
			repo.Now = time.Now
		})
		assert.False(t, service.IsActive(session.ID))
	})

	t.Run("disabled without secret", func(t *testing.T) {
		disabled := NewPreviewService(config.PreviewConfig{}, repo, nil)
		assert.False(t, disabled.Configured())
		assert.Equal(t, config.DefaultPreviewTTL, disabled.TTL())

		_, err := disabled.StartSession("10.0.0.1:1234")
		assert.ErrorIs(t, err, ErrPreviewDisabled)
	})
}
