// Package pipeline coordinates the cover letter stages as a small state
// machine: resume analysis, job research, letter drafting, then best-effort
// saving. A stage only runs after the previous stage's write is visible in
// the session store.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cover-agent/internal/drafting"
	"github.com/jonathan/cover-agent/internal/render"
	"github.com/jonathan/cover-agent/internal/session"
)

// State names the coordinator's position in the pipeline.
type State string

const (
	StateInit         State = "init"
	StateResumeDone   State = "resume_done"
	StateResearchDone State = "research_done"
	StateLetterDone   State = "letter_done"
	StateSaved        State = "saved"
	StateFailed       State = "failed"
)

// Stage tags which stage a failure originated in.
type Stage string

const (
	StageResume   Stage = "resume_analysis"
	StageResearch Stage = "job_research"
	StageDrafting Stage = "letter_drafting"
)

// StageError wraps a stage failure with its origin.
type StageError struct {
	Stage Stage
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}

// ResumeStage analyzes the resume and writes the resume record.
type ResumeStage interface {
	Run(ctx context.Context, store *session.Store) error
}

// ResearchStage researches the posting and writes the job research record.
type ResearchStage interface {
	Run(ctx context.Context, store *session.Store, jobURL string) error
}

// DraftStage writes the cover letter record.
type DraftStage interface {
	Run(ctx context.Context, store *session.Store) error
}

// Options configures a Coordinator.
type Options struct {
	OutputDir string
	Verbose   bool
}

// Coordinator drives the stages in order. Save functions are fields so tests
// exercise the state machine without touching Chrome or the filesystem.
type Coordinator struct {
	resume   ResumeStage
	research ResearchStage
	draft    DraftStage
	opts     Options

	saveText func(content, path string) error
	savePDF  func(ctx context.Context, markdown, path string, verbose bool) error
}

// NewCoordinator wires the three stages together.
func NewCoordinator(resume ResumeStage, research ResearchStage, draft DraftStage, opts Options) *Coordinator {
	if opts.OutputDir == "" {
		opts.OutputDir = "cover_letters"
	}
	return &Coordinator{
		resume:   resume,
		research: research,
		draft:    draft,
		opts:     opts,
		saveText: render.SaveText,
		savePDF:  render.SavePDF,
	}
}

// Run executes the pipeline for one session. It returns the final state;
// StateFailed is always accompanied by an error naming the failing stage.
// Saving is best-effort and cannot fail the run.
func (c *Coordinator) Run(ctx context.Context, store *session.Store, jobURL string) (State, error) {
	state := StateInit
	c.logState(state)

	fmt.Printf("Step 1/4: Analyzing resume...\n")
	if err := c.resume.Run(ctx, store); err != nil {
		return StateFailed, &StageError{Stage: StageResume, Cause: err}
	}
	if !store.Has(session.KeyResumeRecord) {
		return StateFailed, &StageError{Stage: StageResume, Cause: fmt.Errorf("resume record was not written")}
	}
	state = StateResumeDone
	c.logState(state)

	fmt.Printf("Step 2/4: Researching job posting...\n")
	if err := c.research.Run(ctx, store, jobURL); err != nil {
		return StateFailed, &StageError{Stage: StageResearch, Cause: err}
	}
	if !store.Has(session.KeyJobResearch) {
		return StateFailed, &StageError{Stage: StageResearch, Cause: fmt.Errorf("job research record was not written")}
	}
	state = StateResearchDone
	c.logState(state)

	// Fail-fast gate: drafting is never invoked with prerequisites missing.
	if missing := store.Missing(session.KeyResumeRecord, session.KeyJobResearch); len(missing) > 0 {
		return StateFailed, &StageError{
			Stage: StageDrafting,
			Cause: &drafting.PreconditionError{Missing: missing},
		}
	}

	fmt.Printf("Step 3/4: Drafting cover letter...\n")
	if err := c.draft.Run(ctx, store); err != nil {
		return StateFailed, &StageError{Stage: StageDrafting, Cause: err}
	}
	// The drafter's claim of success is not trusted; the record must exist.
	if !store.Has(session.KeyCoverLetter) {
		return StateFailed, &StageError{Stage: StageDrafting, Cause: fmt.Errorf("cover letter record was not written")}
	}
	state = StateLetterDone
	c.logState(state)

	fmt.Printf("Step 4/4: Saving cover letter...\n")
	c.save(ctx, store)
	c.logState(StateSaved)
	return StateSaved, nil
}

func (c *Coordinator) logState(state State) {
	if c.opts.Verbose {
		log.Printf("[VERBOSE] Pipeline state: %s", state)
	}
}

// save writes the text and PDF outputs in parallel, plus the session
// snapshot. Failures are logged and recorded in the store but never
// propagate; the letter itself is already produced.
func (c *Coordinator) save(ctx context.Context, store *session.Store) {
	letter, ok := store.CoverLetter()
	if !ok {
		return
	}

	var lastName, company string
	if resume, ok := store.Resume(); ok {
		lastName = resume.CandidateLastName()
	}
	if research, ok := store.JobResearch(); ok {
		company = research.JobDetails.Company
	}

	base := render.Filename(lastName, company)
	textPath := filepath.Join(c.opts.OutputDir, base+".txt")
	pdfPath := filepath.Join(c.opts.OutputDir, base+".pdf")

	var g errgroup.Group
	g.Go(func() error {
		if err := c.saveText(letter.Content, textPath); err != nil {
			log.Printf("Warning: text save failed: %v", err)
			store.Replace(session.KeySaveStatusText, fmt.Sprintf("failed: %v", err))
			return nil
		}
		store.Replace(session.KeySaveStatusText, "saved: "+textPath)
		return nil
	})
	g.Go(func() error {
		if err := c.savePDF(ctx, letter.Content, pdfPath, c.opts.Verbose); err != nil {
			log.Printf("Warning: PDF save failed: %v", err)
			store.Replace(session.KeySaveStatusPDF, fmt.Sprintf("failed: %v", err))
			return nil
		}
		store.Replace(session.KeySaveStatusPDF, "saved: "+pdfPath)
		return nil
	})
	_ = g.Wait()

	if path, err := store.WriteSnapshot(c.opts.OutputDir); err != nil {
		log.Printf("Warning: session snapshot failed: %v", err)
	} else if c.opts.Verbose {
		log.Printf("[VERBOSE] Session snapshot written: %s", path)
	}
}
