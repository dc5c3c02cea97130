// Package observability provides formatted output utilities for verbose CLI
// mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/cover-agent/internal/types"
)

const (
	// boxWidth is the width of formatted output boxes.
	boxWidth = 60
	// maxItemsToShow caps list output per section.
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(label + ":\n")
	shown := items
	if len(shown) > maxItemsToShow {
		shown = shown[:maxItemsToShow]
	}
	for _, item := range shown {
		sb.WriteString("  - " + item + "\n")
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// PrintResume summarizes the structured resume analysis.
func (p *Printer) PrintResume(record *types.ResumeRecord) {
	if record == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate:  %s\n", record.PersonalInfo.Name))
	if record.PersonalInfo.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:      %s\n", record.PersonalInfo.Email))
	}
	sb.WriteString(fmt.Sprintf("Experience: %.1f years, %d roles\n",
		record.TotalExperienceYears, len(record.WorkExperience)))
	sb.WriteString("\n")
	writeList(&sb, "Skills", record.Skills)
	writeList(&sb, "Key achievements", record.KeyAchievements)

	p.printBox("Resume Analysis", strings.TrimRight(sb.String(), "\n"))
}

// PrintJobResearch summarizes the structured job research.
func (p *Printer) PrintJobResearch(record *types.JobResearchRecord) {
	if record == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:  %s\n", record.JobDetails.Company))
	sb.WriteString(fmt.Sprintf("Role:     %s\n", record.JobDetails.JobTitle))
	if record.JobDetails.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", record.JobDetails.Location))
	}
	if record.CompanyInfo.Industry != "" {
		sb.WriteString(fmt.Sprintf("Industry: %s\n", record.CompanyInfo.Industry))
	}
	sb.WriteString("\n")
	writeList(&sb, "Required skills", record.JobDetails.Requirements.RequiredSkills)
	writeList(&sb, "Application tips", record.ApplicationTips)

	p.printBox("Job Research", strings.TrimRight(sb.String(), "\n"))
}

// PrintCoverLetter summarizes the generated letter without dumping its body.
func (p *Printer) PrintCoverLetter(record *types.CoverLetterRecord) {
	if record == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Words:     %d\n", record.WordCount))
	sb.WriteString(fmt.Sprintf("Generated: %s\n", record.GeneratedDate))
	sb.WriteString("\n")
	writeList(&sb, "Key points", record.KeyPointsCovered)
	writeList(&sb, "Company mentions", record.CompanySpecificMentions)
	writeList(&sb, "Quantified achievements", record.QuantifiedAchievements)

	p.printBox("Cover Letter", strings.TrimRight(sb.String(), "\n"))
}
