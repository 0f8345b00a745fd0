// Package secrets generates the credentials that guard preview mode.
package secrets

import (
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/bcrypt"

	"folio/app/config"
)

const secretBytes = 20

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Secrets is a freshly generated preview secret with its bcrypt hash and a
// cookie signing key.
type Secrets struct {
	PreviewSecret string
	SecretHash    string
	SessionSecret string
}

// Generate creates a new set of secrets. The preview secret starts with
// prefix when one is given. A zero cost uses bcrypt.DefaultCost.
func Generate(prefix string, cost int) (*Secrets, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	random := securecookie.GenerateRandomKey(secretBytes)
	signing := securecookie.GenerateRandomKey(32)
	if random == nil || signing == nil {
		return nil, fmt.Errorf("failed to read random bytes")
	}

	secret := strings.ToLower(encoding.EncodeToString(random))
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		secret = prefix + "-" + secret
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash preview secret: %w", err)
	}

	return &Secrets{
		PreviewSecret: secret,
		SecretHash:    string(hash),
		SessionSecret: hex.EncodeToString(signing),
	}, nil
}

// WriteEnv writes the secrets as environment assignments. The plain secret is
// left out when hashOnly is set.
func (s *Secrets) WriteEnv(w io.Writer, hashOnly bool) error {
	var b strings.Builder
	if !hashOnly {
		fmt.Fprintf(&b, "%s=%s\n", config.EnvPreviewSecret, s.PreviewSecret)
	}
	// Single quotes keep the $ separators of the hash literal for shells and godotenv.
	fmt.Fprintf(&b, "%s='%s'\n", config.EnvPreviewSecretHash, s.SecretHash)
	fmt.Fprintf(&b, "%s=%s\n", config.EnvSessionSecret, s.SessionSecret)
	_, err := io.WriteString(w, b.String())
	return err
}

// Save writes the environment assignments to path, readable only by the owner.
func (s *Secrets) Save(path string, hashOnly bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("failed to create secrets file: %w", err)
	}
	if err := s.WriteEnv(f, hashOnly); err != nil {
		f.Close()
		return fmt.Errorf("failed to write secrets: %w", err)
	}
	return f.Close()
}
