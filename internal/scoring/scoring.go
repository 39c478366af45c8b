// Package scoring runs the ATS-style validation of a generated resume
// PDF against the original job posting.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/marcus/resume-pilot/internal/llm"
	"github.com/marcus/resume-pilot/internal/prompts"
	"github.com/marcus/resume-pilot/internal/schemas"
	"github.com/marcus/resume-pilot/internal/session"
	"github.com/marcus/resume-pilot/internal/types"
)

// EmptyExtractionError indicates a PDF yielded no extractable text,
// usually an image-only render.
type EmptyExtractionError struct {
	Path string
}

func (e *EmptyExtractionError) Error() string {
	return fmt.Sprintf("no text could be extracted from %s", e.Path)
}

// Error represents a failure during resume scoring.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("scoring error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("scoring error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// extractText is swapped out in tests to avoid generating real PDFs.
var extractText = ExtractPDFText

// Score extracts text from the session's generated PDF, runs the ATS
// analysis against the stored posting, and persists the match report.
func Score(ctx context.Context, sess *session.Session, client llm.Client) (*types.MatchReport, error) {
	pdfPath, err := findPDF(sess)
	if err != nil {
		return nil, err
	}

	resumeText, err := extractText(pdfPath)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(resumeText) == "" {
		return nil, &EmptyExtractionError{Path: pdfPath}
	}

	jobDescription, err := sess.ReadText(session.FilePosting)
	if err != nil {
		return nil, err
	}

	system := prompts.MustGet("scoring.json", "ats")
	user := prompts.Format(prompts.MustGet("scoring.json", "ats_user"), map[string]string{
		"JobDescription": jobDescription,
		"ResumeText":     resumeText,
	})

	raw, err := client.GenerateJSON(ctx, system, user)
	if err != nil {
		return nil, &Error{Message: "ATS analysis failed", Cause: err}
	}

	if err := schemas.Validate(schemas.MatchReport, raw); err != nil {
		return nil, &Error{Message: "model output failed validation", Cause: err}
	}

	var report types.MatchReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, &Error{Message: "model output is not valid JSON", Cause: err}
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "    "); err != nil {
		return nil, &Error{Message: "failed to format report", Cause: err}
	}
	if err := sess.WriteText(session.FileMatchReport, buf.String()); err != nil {
		return nil, err
	}

	return &report, nil
}

// findPDF locates the generated PDF in the session directory. Any *.pdf
// file qualifies, the lexicographically first one wins.
func findPDF(sess *session.Session) (string, error) {
	matches, err := filepath.Glob(filepath.Join(sess.Dir, "*.pdf"))
	if err != nil {
		return "", &Error{Message: "failed to scan session directory", Cause: err}
	}
	if len(matches) == 0 {
		return "", &session.NotFoundError{SessionID: sess.ID, Artifact: session.FileResumePDF}
	}
	sort.Strings(matches)
	return matches[0], nil
}

// ExtractPDFText extracts plain text from a PDF file page by page. The
// PDF library panics on some malformed files, so the panic is converted
// to an error here.
func ExtractPDFText(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Message: fmt.Sprintf("failed to parse PDF: %v", r)}
		}
	}()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &Error{Message: "failed to read PDF", Cause: err}
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &Error{Message: "failed to parse PDF", Cause: err}
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &Error{Message: "failed to extract PDF text", Cause: err}
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", &Error{Message: "failed to read extracted text", Cause: err}
	}
	return buf.String(), nil
}
