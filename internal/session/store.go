// Package session provides the shared per-run state store that pipeline
// stages read from and write to.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cover-agent/internal/types"
)

// State keys. Each stage exclusively owns writing its output key; all stages
// may read any earlier key.
const (
	KeyResumeRecord     = "resume_analysis"
	KeyResumeHyperlinks = "resume_hyperlinks"
	KeyJobURL           = "job_url"
	KeyJobDescription   = "job_description"
	KeyCompanyResearch  = "company_research"
	KeyJobResearch      = "job_research"
	KeyCoverLetter      = "cover_letter"
	KeySaveStatusText   = "save_status_text"
	KeySaveStatusPDF    = "save_status_pdf"
)

// ErrKeyExists is returned when a stage writes a key that was already written.
// Records are immutable once stored; replacement must be explicit.
var ErrKeyExists = fmt.Errorf("session key already written")

// NotFoundError is returned when a required key is absent from the store.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("session key %q not found", e.Key)
}

// Store is a key-value container scoped to one end-to-end run. It is safe for
// concurrent use, though within a run stages execute sequentially.
type Store struct {
	mu        sync.RWMutex
	id        string
	createdAt time.Time
	updatedAt time.Time
	values    map[string]any
}

// NewStore creates an empty store with a fresh session ID.
func NewStore() *Store {
	now := time.Now().UTC()
	return &Store{
		id:        uuid.NewString(),
		createdAt: now,
		updatedAt: now,
		values:    make(map[string]any),
	}
}

// ID returns the session identifier.
func (s *Store) ID() string {
	return s.id
}

// Put writes a key exactly once. Writing an existing key fails with
// ErrKeyExists.
func (s *Store) Put(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.values[key]; exists {
		return fmt.Errorf("%w: %s", ErrKeyExists, key)
	}
	s.values[key] = value
	s.updatedAt = time.Now().UTC()
	return nil
}

// Replace overwrites a key by full replacement. Used only for the best-effort
// save-status keys, which a re-run of the save step may legitimately update.
func (s *Store) Replace(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.updatedAt = time.Now().UTC()
}

// Get returns the raw value for key.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// GetString returns the value for key as a string, or "" if absent or not a
// string.
func (s *Store) GetString(key string) string {
	if v, ok := s.Get(key); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

// Has reports whether key has been written.
func (s *Store) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Missing returns, in argument order, the subset of keys not yet written.
func (s *Store) Missing(keys ...string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var missing []string
	for _, key := range keys {
		if _, ok := s.values[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// Resume returns the stored ResumeRecord, if present.
func (s *Store) Resume() (*types.ResumeRecord, bool) {
	v, ok := s.Get(KeyResumeRecord)
	if !ok {
		return nil, false
	}
	record, ok := v.(*types.ResumeRecord)
	return record, ok
}

// JobResearch returns the stored JobResearchRecord, if present.
func (s *Store) JobResearch() (*types.JobResearchRecord, bool) {
	v, ok := s.Get(KeyJobResearch)
	if !ok {
		return nil, false
	}
	record, ok := v.(*types.JobResearchRecord)
	return record, ok
}

// CoverLetter returns the stored CoverLetterRecord, if present.
func (s *Store) CoverLetter() (*types.CoverLetterRecord, bool) {
	v, ok := s.Get(KeyCoverLetter)
	if !ok {
		return nil, false
	}
	record, ok := v.(*types.CoverLetterRecord)
	return record, ok
}
