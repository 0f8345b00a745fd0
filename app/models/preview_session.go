package models

import (
	"errors"
	"time"
)

// Validate checks if the session meets all validation requirements
func (s *PreviewSession) Validate() error {
	if err := validate.Struct(s); err != nil {
		return err
	}

	if s.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (s *PreviewSession) BeforeCreate(ttl time.Duration) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	if s.ExpiresAt.IsZero() {
		s.ExpiresAt = s.CreatedAt.Add(ttl)
	}
}

// ExpiredAt reports whether the session is no longer valid at t.
func (s *PreviewSession) ExpiredAt(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}

// TTL returns how long the session stays valid after t.
func (s *PreviewSession) TTL(t time.Time) time.Duration {
	return s.ExpiresAt.Sub(t)
}

// BeforeCreate stamps the check time if it is not set.
func (c *ConnectivityCheck) BeforeCreate() {
	if c.CheckedAt.IsZero() {
		c.CheckedAt = time.Now()
	}
}

// Validate checks the recorded probes.
func (c *ConnectivityCheck) Validate() error {
	return validate.Struct(c)
}

// Healthy reports whether every probe succeeded.
func (c *ConnectivityCheck) Healthy() bool {
	if len(c.Probes) == 0 {
		return false
	}
	for _, p := range c.Probes {
		if !p.OK {
			return false
		}
	}
	return true
}
