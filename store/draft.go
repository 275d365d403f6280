package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raksh/borewell-capture/form"
	"github.com/raksh/borewell-capture/geo"
)

var (
	ErrDraftNotFound = fmt.Errorf("draft not found")
)

// Draft is a mounted form together with the probe feeding it. Release
// unmounts it: a probe still waiting for a position drops its result.
type Draft struct {
	ID        string
	Form      *form.Form
	Probe     *geo.Probe
	CreatedAt time.Time

	ctx     context.Context
	release context.CancelFunc
}

// NewDraft mounts f and p under a fresh id. The draft lives until parent is
// done or the draft is released.
func NewDraft(parent context.Context, f *form.Form, p *geo.Probe) *Draft {
	ctx, cancel := context.WithCancel(parent)
	return &Draft{
		ID:        uuid.New().String(),
		Form:      f,
		Probe:     p,
		CreatedAt: time.Now().UTC(),
		ctx:       ctx,
		release:   cancel,
	}
}

// Context is done once the draft is released.
func (d *Draft) Context() context.Context {
	return d.ctx
}

func (d *Draft) Release() {
	d.release()
}

// DraftStore keeps the drafts mounted by the form service.
type DraftStore interface {
	AddDraft(*Draft)
	GetDraft(id string) (*Draft, error)
	// RemoveDraft releases and forgets a draft.
	RemoveDraft(id string) error
	CountDrafts() int
}

// MemoryDraftStore is a DraftStore held in process memory. Drafts do not
// survive a restart.
type MemoryDraftStore struct {
	sync.RWMutex
	drafts map[string]*Draft
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{
		drafts: make(map[string]*Draft),
	}
}

func (s *MemoryDraftStore) AddDraft(d *Draft) {
	s.Lock()
	defer s.Unlock()
	s.drafts[d.ID] = d
}

func (s *MemoryDraftStore) GetDraft(id string) (*Draft, error) {
	s.RLock()
	defer s.RUnlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return d, nil
}

func (s *MemoryDraftStore) RemoveDraft(id string) error {
	s.Lock()
	d, ok := s.drafts[id]
	delete(s.drafts, id)
	s.Unlock()

	if !ok {
		return ErrDraftNotFound
	}
	d.Release()
	return nil
}

func (s *MemoryDraftStore) CountDrafts() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.drafts)
}
