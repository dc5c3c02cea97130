// Package drafting implements the cover letter drafting stage. Its input
// assembly is a pure function of the session store, so the precondition gate
// can be checked without touching the LLM.
package drafting

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/cover-agent/internal/llm"
	"github.com/jonathan/cover-agent/internal/prompts"
	"github.com/jonathan/cover-agent/internal/schemas"
	"github.com/jonathan/cover-agent/internal/session"
	"github.com/jonathan/cover-agent/internal/structured"
	"github.com/jonathan/cover-agent/internal/types"
)

// PreconditionError reports the session keys the drafter needs but cannot
// find. Missing preserves the order the keys are checked in.
type PreconditionError struct {
	Missing []string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot draft cover letter, missing required data: %s",
		strings.Join(e.Missing, ", "))
}

// Error represents a failure during letter drafting.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("letter drafting failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("letter drafting failed: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Input is everything the drafting prompt needs, assembled from the session.
type Input struct {
	Resume        *types.ResumeRecord
	Research      *types.JobResearchRecord
	CandidateName string
	CompanyName   string
}

// BuildInput assembles the drafting input from the store. It never mutates
// the store; when prerequisites are missing it returns a PreconditionError
// naming exactly the absent keys.
func BuildInput(store *session.Store) (*Input, error) {
	if missing := store.Missing(session.KeyResumeRecord, session.KeyJobResearch); len(missing) > 0 {
		return nil, &PreconditionError{Missing: missing}
	}

	resume, ok := store.Resume()
	if !ok {
		return nil, &Error{Message: "resume analysis has unexpected type"}
	}
	research, ok := store.JobResearch()
	if !ok {
		return nil, &Error{Message: "job research has unexpected type"}
	}

	return &Input{
		Resume:        resume,
		Research:      research,
		CandidateName: resume.PersonalInfo.Name,
		CompanyName:   research.JobDetails.Company,
	}, nil
}

// Drafter runs the letter drafting stage.
type Drafter struct {
	client  llm.Client
	verbose bool
}

// New builds a Drafter.
func New(client llm.Client, verbose bool) *Drafter {
	return &Drafter{client: client, verbose: verbose}
}

// Run drafts the letter from the stored records and saves the result. The
// word count and generation date are always recomputed here; the model's
// claims about its own output are not trusted.
func (d *Drafter) Run(ctx context.Context, store *session.Store) error {
	input, err := BuildInput(store)
	if err != nil {
		return err
	}

	resumeJSON, err := json.MarshalIndent(input.Resume, "", "  ")
	if err != nil {
		return &Error{Message: "encoding resume analysis", Cause: err}
	}
	researchJSON, err := json.MarshalIndent(input.Research, "", "  ")
	if err != nil {
		return &Error{Message: "encoding job research", Cause: err}
	}

	prompt := prompts.Format(prompts.MustGet(prompts.FileLetter, "draft"), map[string]string{
		"ResumeAnalysis": string(resumeJSON),
		"JobResearch":    string(researchJSON),
		"CandidateName":  input.CandidateName,
		"CompanyName":    input.CompanyName,
	})

	raw, err := d.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return &Error{Message: "generating cover letter", Cause: err}
	}

	record, err := structured.Decode[types.CoverLetterRecord](raw, structured.Options{
		Schema: schemas.CoverLetter,
		Repair: structured.RepairEscapes,
	})
	if err != nil {
		return &Error{Message: "decoding cover letter", Cause: err}
	}

	record.Finalize()
	if err := record.Validate(); err != nil {
		return &Error{Message: "validating cover letter", Cause: err}
	}

	if err := store.Put(session.KeyCoverLetter, record); err != nil {
		return &Error{Message: "storing cover letter", Cause: err}
	}
	if d.verbose {
		log.Printf("[VERBOSE] Cover letter stored: %d words for %s at %s",
			record.WordCount, input.CandidateName, input.CompanyName)
	}
	return nil
}
