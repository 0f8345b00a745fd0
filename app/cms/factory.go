package cms

import (
	"go.uber.org/zap"

	"folio/app/config"
	"folio/app/logging"
)

// Clients holds the delivery and preview clients built from configuration.
// A nil client is paired with the error that explains its absence.
type Clients struct {
	Delivery    Client
	Preview     Client
	DeliveryErr *Error
	PreviewErr  *Error

	logger *zap.Logger
}

// NewClients builds both clients once. Missing credentials disable the
// affected client and are logged; they are never fatal.
func NewClients(cfg config.ContentfulConfig, logger *zap.Logger) *Clients {
	logger = logging.OrNop(logger)
	c := &Clients{logger: logger}

	delivery, err := NewHTTPClient(ModeDelivery, Options{
		SpaceID:     cfg.SpaceID,
		Environment: cfg.Environment,
		AccessToken: cfg.AccessToken,
		Host:        cfg.Host,
		Timeout:     cfg.Timeout,
	})
	if err != nil {
		c.DeliveryErr = AsError(err, "cms.new_delivery_client")
		logger.Warn("Contentful delivery client disabled", zap.Error(err))
	} else {
		c.Delivery = delivery
	}

	preview, err := NewHTTPClient(ModePreview, Options{
		SpaceID:     cfg.SpaceID,
		Environment: cfg.Environment,
		AccessToken: cfg.PreviewAccessToken,
		Host:        cfg.PreviewHost,
		Timeout:     cfg.Timeout,
	})
	if err != nil {
		c.PreviewErr = AsError(err, "cms.new_preview_client")
		logger.Info("Contentful preview client disabled", zap.Error(err))
	} else {
		c.Preview = preview
	}

	return c
}

// NewStaticClients wraps existing clients. Either may be nil.
func NewStaticClients(delivery, preview Client, logger *zap.Logger) *Clients {
	c := &Clients{Delivery: delivery, Preview: preview, logger: logging.OrNop(logger)}
	if delivery == nil {
		c.DeliveryErr = NewError(KindConfigMissing, "cms.new_delivery_client", nil)
	}
	if preview == nil {
		c.PreviewErr = NewError(KindConfigMissing, "cms.new_preview_client", nil)
	}
	return c
}

// Select returns the client for the requested mode. A preview request without
// a preview client falls back to the delivery client. The returned client is
// nil when no client is available for the effective mode.
func (c *Clients) Select(preview bool) (Client, Mode) {
	if c == nil {
		return nil, ModeDelivery
	}
	if preview {
		if c.Preview != nil {
			return c.Preview, ModePreview
		}
		c.logger.Debug("Preview client unavailable, using delivery client")
	}
	return c.Delivery, ModeDelivery
}

// Available reports whether at least one client is configured.
func (c *Clients) Available() bool {
	return c != nil && (c.Delivery != nil || c.Preview != nil)
}

// Err returns the construction error for mode, or nil.
func (c *Clients) Err(mode Mode) *Error {
	if c == nil {
		return NewError(KindConfigMissing, "cms.clients", nil)
	}
	if mode == ModePreview {
		return c.PreviewErr
	}
	return c.DeliveryErr
}

// Client returns the client for mode without fallback.
func (c *Clients) Client(mode Mode) Client {
	if c == nil {
		return nil
	}
	if mode == ModePreview {
		return c.Preview
	}
	return c.Delivery
}
