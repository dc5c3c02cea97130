package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/cover-agent/internal/types"
)

// Snapshot is the serializable view of a session's record keys. Raw text
// keys (job description, company research) are included truncated so the
// snapshot stays readable.
type Snapshot struct {
	SessionID       string                   `json:"session_id"`
	CreatedAt       string                   `json:"created_at"`
	UpdatedAt       string                   `json:"updated_at"`
	ResumeAnalysis  *types.ResumeRecord      `json:"resume_analysis,omitempty"`
	JobResearch     *types.JobResearchRecord `json:"job_research,omitempty"`
	CoverLetter     *types.CoverLetterRecord `json:"cover_letter,omitempty"`
	JobURL          string                   `json:"job_url,omitempty"`
	JobDescription  string                   `json:"job_description,omitempty"`
	CompanyResearch string                   `json:"company_research,omitempty"`
	SaveStatusText  string                   `json:"save_status_text,omitempty"`
	SaveStatusPDF   string                   `json:"save_status_pdf,omitempty"`
}

// rawPreviewLimit bounds raw text fields in the snapshot.
const rawPreviewLimit = 2000

// Snapshot builds a point-in-time view of the store.
func (s *Store) Snapshot() *Snapshot {
	snap := &Snapshot{
		SessionID:       s.id,
		CreatedAt:       s.createdAt.Format(time.RFC3339),
		JobURL:          s.GetString(KeyJobURL),
		JobDescription:  truncate(s.GetString(KeyJobDescription), rawPreviewLimit),
		CompanyResearch: truncate(s.GetString(KeyCompanyResearch), rawPreviewLimit),
		SaveStatusText:  s.GetString(KeySaveStatusText),
		SaveStatusPDF:   s.GetString(KeySaveStatusPDF),
	}
	if record, ok := s.Resume(); ok {
		snap.ResumeAnalysis = record
	}
	if record, ok := s.JobResearch(); ok {
		snap.JobResearch = record
	}
	if record, ok := s.CoverLetter(); ok {
		snap.CoverLetter = record
	}

	s.mu.RLock()
	snap.UpdatedAt = s.updatedAt.Format(time.RFC3339)
	s.mu.RUnlock()

	return snap
}

// WriteSnapshot writes the snapshot as pretty-printed JSON into dir.
func (s *Store) WriteSnapshot(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal session snapshot: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("session_%s.json", s.id))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write session snapshot: %w", err)
	}
	return path, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
