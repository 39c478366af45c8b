// Package ingestion captures job posting content into a session, either by
// scraping a URL or by accepting pasted text.
package ingestion

import (
	"context"
	"strings"

	"github.com/marcus/resume-pilot/internal/fetch"
	"github.com/marcus/resume-pilot/internal/session"
)

// Source describes where posting content comes from. Exactly one of URL
// or InlineText should be set; URL wins when both are present.
type Source struct {
	URL        string
	InlineText string
}

// Options controls ingestion behavior.
type Options struct {
	UseBrowser bool
	Verbose    bool
}

// Ingest resolves the source to Markdown posting content and writes it to
// the session as the posting artifact. It returns the stored content.
func Ingest(ctx context.Context, sess *session.Session, src Source, opts Options) (string, error) {
	var content string

	switch {
	case strings.TrimSpace(src.URL) != "":
		target := TransformJobBoardURL(strings.TrimSpace(src.URL))
		md, err := fetch.Page(ctx, target, opts.UseBrowser, opts.Verbose)
		if err != nil {
			return "", &ScrapeError{URL: target, Cause: err}
		}
		if strings.TrimSpace(md) == "" {
			return "", &ScrapeError{URL: target}
		}
		content = md
	case strings.TrimSpace(src.InlineText) != "":
		content = strings.TrimSpace(src.InlineText)
	default:
		return "", &EmptyInputError{Message: "provide a posting URL or pasted posting text"}
	}

	if err := sess.WriteText(session.FilePosting, content); err != nil {
		return "", err
	}
	return content, nil
}
