// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/marcus/resume-pilot/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintStep announces a pipeline step.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStep(name, detail string) {
	if detail != "" {
		fmt.Fprintf(p.out, "=== %s: %s ===\n", name, detail)
		return
	}
	fmt.Fprintf(p.out, "=== %s ===\n", name)
}

// PrintIdealProfile outputs a human-readable summary of the analyzed profile.
func (p *Printer) PrintIdealProfile(profile *types.IdealCandidateProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Target:   %s\n", profile.ExperienceSummary))
	sb.WriteString("\n")

	if len(profile.TopTechnicalSkills) > 0 {
		sb.WriteString("Technical Skills:\n")
		count := min(len(profile.TopTechnicalSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", profile.TopTechnicalSkills[i]))
		}
		if len(profile.TopTechnicalSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.TopTechnicalSkills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(profile.TopSoftSkills) > 0 {
		sb.WriteString("Soft Skills:\n")
		count := min(len(profile.TopSoftSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", profile.TopSoftSkills[i]))
		}
	}

	p.printBox("Ideal Candidate Profile", strings.TrimRight(sb.String(), "\n"))
}

// PrintResumeSummary outputs the shape of the built resume.
func (p *Printer) PrintResumeSummary(resume *types.TailoredResume) {
	if resume == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Roles:        %d\n", len(resume.WorkExperience)))
	sb.WriteString(fmt.Sprintf("Skill groups: %d\n", len(resume.Skills)))
	sb.WriteString("\n")
	sb.WriteString("Summary:\n")
	sb.WriteString("  " + resume.Summary)

	p.printBox("Built Resume", sb.String())
}

// PrintMatchReport outputs the ATS validation results.
func (p *Printer) PrintMatchReport(report *types.MatchReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score: %d / 100\n", report.Score))
	sb.WriteString("\n")

	if len(report.MatchingKeywords) > 0 {
		sb.WriteString("Matching: " + strings.Join(report.MatchingKeywords, ", ") + "\n")
	}
	if len(report.MissingKeywords) > 0 {
		sb.WriteString("Missing:  " + strings.Join(report.MissingKeywords, ", ") + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(report.Summary)

	p.printBox("ATS Match Report", sb.String())
}
