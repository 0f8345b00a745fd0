package repositories

import "folio/app/models"

// PreviewSessionRepository stores enabled preview sessions until they expire.
type PreviewSessionRepository interface {
	Create(session *models.PreviewSession) error
	GetByID(id string) (*models.PreviewSession, error)
	Delete(id string) error
}

// CheckRepository keeps the history of CMS connectivity checks.
type CheckRepository interface {
	Create(check *models.ConnectivityCheck) error
	List(limit int) ([]*models.ConnectivityCheck, error)
	Clear() error
}
