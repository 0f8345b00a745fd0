package mock

import (
	"sort"
	"sync"
	"time"

	"folio/app/models"
	"folio/app/repositories"
)

var (
	_ repositories.PreviewSessionRepository = (*PreviewSessionRepository)(nil)
	_ repositories.CheckRepository          = (*CheckRepository)(nil)
)

type PreviewSessionRepository struct {
	sessions map[string]*models.PreviewSession
	mutex    sync.RWMutex
	// Now overrides the clock used for expiry checks.
	Now func() time.Time
}

type CheckRepository struct {
	checks map[int]*models.ConnectivityCheck
	nextID int
	mutex  sync.RWMutex
}

func NewPreviewSessionRepository() *PreviewSessionRepository {
	return &PreviewSessionRepository{
		sessions: make(map[string]*models.PreviewSession),
		Now:      time.Now,
	}
}

func NewCheckRepository() *CheckRepository {
	return &CheckRepository{
		checks: make(map[int]*models.ConnectivityCheck),
		nextID: 1,
	}
}

// PreviewSessionRepository implementation
func (m *PreviewSessionRepository) Create(session *models.PreviewSession) error {
	if err := session.Validate(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

func (m *PreviewSessionRepository) GetByID(id string) (*models.PreviewSession, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	session, exists := m.sessions[id]
	if !exists || session.ExpiredAt(m.Now()) {
		return nil, repositories.ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (m *PreviewSessionRepository) Delete(id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.sessions, id)
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (m *PreviewSessionRepository) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}

// CheckRepository implementation
func (m *CheckRepository) Create(check *models.ConnectivityCheck) error {
	check.BeforeCreate()
	if err := check.Validate(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	check.ID = m.nextID
	m.nextID++
	m.checks[check.ID] = check
	return nil
}

func (m *CheckRepository) List(limit int) ([]*models.ConnectivityCheck, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	checks := make([]*models.ConnectivityCheck, 0, len(m.checks))
	for _, c := range m.checks {
		checks = append(checks, c)
	}
	sort.Slice(checks, func(i, j int) bool { return checks[i].ID > checks[j].ID })
	if limit > 0 && len(checks) > limit {
		checks = checks[:limit]
	}
	return checks, nil
}

func (m *CheckRepository) Clear() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.checks = make(map[int]*models.ConnectivityCheck)
	return nil
}
