// Package research implements the job research stage: fetch the posting,
// research the company, and combine both into a structured record.
package research

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/cover-agent/internal/fetch"
	"github.com/jonathan/cover-agent/internal/llm"
	"github.com/jonathan/cover-agent/internal/prompts"
	"github.com/jonathan/cover-agent/internal/schemas"
	"github.com/jonathan/cover-agent/internal/session"
	"github.com/jonathan/cover-agent/internal/structured"
	"github.com/jonathan/cover-agent/internal/types"
)

// Error represents a failure during job research.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("job research failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("job research failed: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// PageFetcher retrieves a job posting. Implemented by fetch.Fetcher.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Result, error)
}

// Researcher runs the job research stage.
type Researcher struct {
	client   llm.Client
	fetcher  PageFetcher
	searcher Searcher
	verbose  bool
}

// New builds a Researcher.
func New(client llm.Client, fetcher PageFetcher, searcher Searcher, verbose bool) *Researcher {
	return &Researcher{client: client, fetcher: fetcher, searcher: searcher, verbose: verbose}
}

// Run fetches the posting at jobURL, researches the hiring company, and
// stores the combined structured record. The raw company research is kept
// verbatim under its own key; structuring must not silently rewrite it.
func (r *Researcher) Run(ctx context.Context, store *session.Store, jobURL string) error {
	_ = store.Put(session.KeyJobURL, jobURL)

	result, err := r.fetcher.Fetch(ctx, jobURL)
	if err != nil {
		return &Error{Message: "fetching job posting", Cause: err}
	}
	description := result.Content
	if stored := store.GetString(session.KeyJobDescription); stored != "" {
		description = stored
	} else if description != "" {
		_ = store.Put(session.KeyJobDescription, description)
	}
	if description == "" {
		return &Error{Message: fmt.Sprintf("no content extracted from %s", jobURL)}
	}

	company, err := r.extractCompany(ctx, description)
	if err != nil {
		return err
	}
	if r.verbose {
		log.Printf("[VERBOSE] Researching company: %s", company)
	}

	companyResearch, err := r.searcher.Search(ctx, company, FocusCompanyOverview)
	if err != nil {
		return &Error{Message: "researching company", Cause: err}
	}
	_ = store.Put(session.KeyCompanyResearch, companyResearch)

	record, err := r.structure(ctx, description, companyResearch, jobURL)
	if err != nil {
		return err
	}
	if err := record.Validate(); err != nil {
		return &Error{Message: "validating job research", Cause: err}
	}

	if err := store.Put(session.KeyJobResearch, record); err != nil {
		return &Error{Message: "storing job research", Cause: err}
	}
	if r.verbose {
		log.Printf("[VERBOSE] Job research stored: %s at %s",
			record.JobDetails.JobTitle, record.JobDetails.Company)
	}
	return nil
}

// extractCompany asks the lite model for just the hiring company's name.
func (r *Researcher) extractCompany(ctx context.Context, description string) (string, error) {
	prompt := prompts.Format(prompts.MustGet(prompts.FileResearch, "extract_company"), map[string]string{
		"JobDescription": description,
	})
	name, err := r.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", &Error{Message: "extracting company name", Cause: err}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &Error{Message: "company name extraction returned nothing"}
	}
	return name, nil
}

// structure combines posting and research into the job research record.
// Research text pasted into JSON is where control characters sneak in, so
// decoding uses the control-char repair.
func (r *Researcher) structure(ctx context.Context, description, companyResearch, jobURL string) (*types.JobResearchRecord, error) {
	prompt := prompts.Format(prompts.MustGet(prompts.FileResearch, "structure"), map[string]string{
		"JobDescription":  description,
		"CompanyResearch": companyResearch,
		"JobURL":          jobURL,
	})

	raw, err := r.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &Error{Message: "generating job research", Cause: err}
	}

	record, err := structured.Decode[types.JobResearchRecord](raw, structured.Options{
		Schema:         schemas.JobResearch,
		Repair:         structured.RepairControlChars,
		TimestampField: "research_date",
	})
	if err != nil {
		return nil, &Error{Message: "decoding job research", Cause: err}
	}
	return record, nil
}
