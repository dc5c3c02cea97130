// Package analysis implements the resume analysis stage: read the candidate's
// resume PDF, have the LLM structure it, and record the result in the
// session.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jonathan/cover-agent/internal/ingestion"
	"github.com/jonathan/cover-agent/internal/llm"
	"github.com/jonathan/cover-agent/internal/prompts"
	"github.com/jonathan/cover-agent/internal/schemas"
	"github.com/jonathan/cover-agent/internal/session"
	"github.com/jonathan/cover-agent/internal/structured"
	"github.com/jonathan/cover-agent/internal/types"
)

// Error represents a failure during resume analysis.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("resume analysis failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("resume analysis failed: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Analyzer runs the resume analysis stage.
type Analyzer struct {
	client    llm.Client
	resumeDir string
	verbose   bool
	reader    func(dir string) (*ingestion.ResumeSource, error)
}

// New builds an Analyzer reading PDFs from resumeDir.
func New(client llm.Client, resumeDir string, verbose bool) *Analyzer {
	return &Analyzer{
		client:    client,
		resumeDir: resumeDir,
		verbose:   verbose,
		reader:    ingestion.ReadResume,
	}
}

// Run reads the resume, structures it via the LLM, and stores the record
// with the resume's hyperlinks alongside.
func (a *Analyzer) Run(ctx context.Context, store *session.Store) error {
	source, err := a.reader(a.resumeDir)
	if err != nil {
		return &Error{Message: "reading resume PDF", Cause: err}
	}
	if a.verbose {
		log.Printf("[VERBOSE] Resume %s: %d pages, %d chars, %d links",
			source.FileName, source.PageCount, len(source.Content), len(source.Hyperlinks))
	}

	linksJSON, err := json.Marshal(source.Hyperlinks)
	if err != nil {
		return &Error{Message: "encoding resume hyperlinks", Cause: err}
	}

	prompt := prompts.Format(prompts.MustGet(prompts.FileResume, "analyze"), map[string]string{
		"ResumeText": source.Content,
		"Hyperlinks": string(linksJSON),
	})

	raw, err := a.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return &Error{Message: "generating resume analysis", Cause: err}
	}

	record, err := structured.Decode[types.ResumeRecord](raw, structured.Options{
		Schema: schemas.ResumeAnalysis,
		Repair: structured.RepairEscapes,
	})
	if err != nil {
		return &Error{Message: "decoding resume analysis", Cause: err}
	}
	if err := record.Validate(); err != nil {
		return &Error{Message: "validating resume analysis", Cause: err}
	}

	if err := store.Put(session.KeyResumeRecord, record); err != nil {
		return &Error{Message: "storing resume analysis", Cause: err}
	}
	if err := store.Put(session.KeyResumeHyperlinks, source.Hyperlinks); err != nil {
		return &Error{Message: "storing resume hyperlinks", Cause: err}
	}

	if a.verbose {
		log.Printf("[VERBOSE] Resume analysis stored for %s (%d roles, %d skills)",
			record.PersonalInfo.Name, len(record.WorkExperience), len(record.Skills))
	}
	return nil
}
