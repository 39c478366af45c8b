// Package server provides the HTTP REST API for resume-pilot.
package server

import (
	"errors"
	"net/http"

	"github.com/marcus/resume-pilot/internal/analysis"
	"github.com/marcus/resume-pilot/internal/building"
	"github.com/marcus/resume-pilot/internal/bundle"
	"github.com/marcus/resume-pilot/internal/fetch"
	"github.com/marcus/resume-pilot/internal/ingestion"
	"github.com/marcus/resume-pilot/internal/llm"
	"github.com/marcus/resume-pilot/internal/pipeline"
	"github.com/marcus/resume-pilot/internal/rendering"
	"github.com/marcus/resume-pilot/internal/schemas"
	"github.com/marcus/resume-pilot/internal/scoring"
	"github.com/marcus/resume-pilot/internal/session"
)

// ErrValidation indicates a request body failed validation before any
// pipeline work started.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return "validation error: " + e.Field + " - " + e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Wrapper types from the pipeline stages are matched before the concrete
// errors they may carry, so a schema failure inside an analysis step maps
// to 502 (the model produced bad output) while the same failure on an
// artifact upload maps to 422 (the client sent bad content).
func HTTPStatus(err error) int {
	var (
		notFound   *session.NotFoundError
		validation *ErrValidation
		emptyInput *ingestion.EmptyInputError
		dependency *pipeline.DependencyError
		badArchive *bundle.BadArchiveError

		llmErr     *llm.Error
		scrapeErr  *ingestion.ScrapeError
		fetchErr   *fetch.Error
		analyzeErr *analysis.Error
		buildErr   *building.StepError
		renderErr  *rendering.Error
		scoreErr   *scoring.Error
		emptyText  *scoring.EmptyExtractionError

		formatErr *session.FormatError
		schemaErr *schemas.ValidationError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation),
		errors.As(err, &emptyInput),
		errors.As(err, &dependency),
		errors.As(err, &badArchive):
		return http.StatusBadRequest
	case errors.As(err, &llmErr),
		errors.As(err, &scrapeErr),
		errors.As(err, &fetchErr),
		errors.As(err, &analyzeErr),
		errors.As(err, &buildErr),
		errors.As(err, &renderErr),
		errors.As(err, &scoreErr),
		errors.As(err, &emptyText):
		return http.StatusBadGateway
	case errors.As(err, &formatErr),
		errors.As(err, &schemaErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
