package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"folio/app/config"
	"folio/app/logging"
	"folio/app/models"
	"folio/app/repositories"
)

// ErrPreviewDisabled is returned when no preview secret is configured.
var ErrPreviewDisabled = errors.New("preview secret is not configured")

// PreviewService gates preview mode behind a shared secret and tracks the
// sessions it enabled.
type PreviewService struct {
	cfg      config.PreviewConfig
	sessions repositories.PreviewSessionRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewPreviewService creates a new PreviewService
func NewPreviewService(cfg config.PreviewConfig, sessions repositories.PreviewSessionRepository, logger *zap.Logger) *PreviewService {
	if cfg.TTL <= 0 {
		cfg.TTL = config.DefaultPreviewTTL
	}
	return &PreviewService{
		cfg:      cfg,
		sessions: sessions,
		logger:   logging.OrNop(logger),
		now:      time.Now,
	}
}

// Configured reports whether a preview secret is set.
func (s *PreviewService) Configured() bool {
	return s.cfg.Secret != "" || s.cfg.SecretHash != ""
}

// TTL is the lifetime of a preview session.
func (s *PreviewService) TTL() time.Duration {
	return s.cfg.TTL
}

// Authorize checks secret against the configured bcrypt hash or plain secret.
// Without a configured secret every attempt is rejected.
func (s *PreviewService) Authorize(secret string) bool {
	if secret == "" {
		return false
	}
	if s.cfg.SecretHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.SecretHash), []byte(secret)) == nil
	}
	if s.cfg.Secret != "" {
		return subtle.ConstantTimeCompare([]byte(s.cfg.Secret), []byte(secret)) == 1
	}
	return false
}

// StartSession records a new preview session.
func (s *PreviewService) StartSession(remoteAddr string) (*models.PreviewSession, error) {
	if !s.Configured() {
		return nil, ErrPreviewDisabled
	}
	session := &models.PreviewSession{
		ID:         uuid.NewString(),
		RemoteAddr: remoteAddr,
		CreatedAt:  s.now(),
	}
	session.BeforeCreate(s.cfg.TTL)

	if err := s.sessions.Create(session); err != nil {
		return nil, fmt.Errorf("failed to store preview session: %w", err)
	}
	s.logger.Info("Preview mode enabled",
		zap.String("session_id", session.ID),
		zap.String("remote_addr", remoteAddr),
		zap.Time("expires_at", session.ExpiresAt))
	return session, nil
}

// IsActive reports whether id names a live session.
func (s *PreviewService) IsActive(id string) bool {
	if id == "" {
		return false
	}
	session, err := s.sessions.GetByID(id)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			s.logger.Warn("Failed to load preview session", zap.String("session_id", id), zap.Error(err))
		}
		return false
	}
	return !session.ExpiredAt(s.now())
}

// EndSession revokes a session. Unknown ids are ignored.
func (s *PreviewService) EndSession(id string) error {
	if id == "" {
		return nil
	}
	if err := s.sessions.Delete(id); err != nil {
		return fmt.Errorf("failed to delete preview session: %w", err)
	}
	s.logger.Info("Preview mode disabled", zap.String("session_id", id))
	return nil
}
