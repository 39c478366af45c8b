package server

import (
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/marcus/resume-pilot/internal/bundle"
	"github.com/marcus/resume-pilot/internal/ingestion"
	"github.com/marcus/resume-pilot/internal/profile"
	"github.com/marcus/resume-pilot/internal/schemas"
	"github.com/marcus/resume-pilot/internal/session"
)

// CreateSessionRequest represents the request body for POST /sessions.
// Exactly one of job_url and job_text must carry the posting; when both
// are present the URL wins. An optional user profile is validated and
// stored into the session so later builds pick it up.
type CreateSessionRequest struct {
	Company  string          `json:"company" validate:"required"`
	Position string          `json:"position" validate:"required"`
	JobURL   string          `json:"job_url,omitempty"`
	JobText  string          `json:"job_text,omitempty"`
	Profile  json.RawMessage `json:"profile,omitempty"`
}

// SessionResponse reports a session's identity and progress.
type SessionResponse struct {
	SessionID    string `json:"session_id"`
	Checkpoint   string `json:"checkpoint"`
	AnalysisMode string `json:"analysis_mode,omitempty"`
}

// StepRequest represents the optional request body for build and run.
type StepRequest struct {
	Keywords    []string `json:"keywords,omitempty"`
	ProfilePath string   `json:"profile_path,omitempty"`
}

// handleCreateSession creates a session and captures the posting into it.
// The session directory is removed again if the fetch fails, so a failed
// create never leaves an empty session behind.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if req.JobURL == "" && req.JobText == "" {
		s.pipelineError(w, &ErrValidation{Field: "job_url", Message: "either job_url or job_text is required"})
		return
	}

	var userProfile *profile.UserProfile
	if len(req.Profile) > 0 {
		p, err := profile.Parse(req.Profile)
		if err != nil {
			s.pipelineError(w, err)
			return
		}
		userProfile = p
	}

	sess, err := s.runner.Store().Create(req.Company, req.Position)
	if err != nil {
		s.pipelineError(w, err)
		return
	}

	src := ingestion.Source{URL: req.JobURL, InlineText: req.JobText}
	if _, err := s.runner.Fetch(r.Context(), sess, src); err != nil {
		_ = s.runner.Store().Remove(sess.ID)
		s.pipelineError(w, err)
		return
	}

	if userProfile != nil {
		if err := sess.WriteText(session.FileUserProfile, string(userProfile.JSON())); err != nil {
			s.pipelineError(w, err)
			return
		}
	}

	s.jsonResponse(w, http.StatusCreated, sessionResponse(sess))
}

// handleImportBundle restores a session from an exported zip archive.
// Company and position come from query parameters because the body is
// the raw archive.
func (s *Server) handleImportBundle(w http.ResponseWriter, r *http.Request) {
	company := r.URL.Query().Get("company")
	position := r.URL.Query().Get("position")
	if company == "" || position == "" {
		s.errorResponse(w, http.StatusBadRequest, "company and position query parameters are required")
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read archive: "+err.Error())
		return
	}

	sess, _, err := bundle.Import(s.runner.Store(), data, company, position)
	if err != nil {
		s.pipelineError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, sessionResponse(sess))
}

// handleExportBundle streams the session's artifacts as a zip archive.
func (s *Server) handleExportBundle(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.openSession(w, r)
	if !ok {
		return
	}

	data, err := bundle.Export(sess)
	if err != nil {
		s.pipelineError(w, err)
		return
	}
	if data == nil {
		s.errorResponse(w, http.StatusNotFound, "session has no artifacts to export")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+bundle.Filename(sess)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleAnalyze runs the analysis step. ?mode=legacy selects the flat
// listing schema instead of the ideal candidate profile.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.openSession(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("mode") == "legacy" {
		listing, err := s.runner.AnalyzeLegacy(r.Context(), sess)
		if err != nil {
			s.pipelineError(w, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, listing)
		return
	}

	ideal, err := s.runner.Analyze(r.Context(), sess)
	if err != nil {
		s.pipelineError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ideal)
}

// handleBuild runs the resume building step.
func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.openSession(w, r)
	if !ok {
		return
	}
	req, ok := s.decodeStepRequest(w, r)
	if !ok {
		return
	}

	resume, err := s.runner.Build(r.Context(), sess, req.ProfilePath, req.Keywords)
	if err != nil {
		s.pipelineError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resume)
}

// handleRender runs the rendering step and reports the PDF location.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.openSession(w, r)
	if !ok {
		return
	}

	pdfPath, err := s.runner.Render(r.Context(), sess)
	if err != nil {
		s.pipelineError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"session_id": sess.ID,
		"pdf_path":   pdfPath,
	})
}

// handleScore runs the ATS scoring step.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.openSession(w, r)
	if !ok {
		return
	}

	report, err := s.runner.Score(r.Context(), sess)
	if err != nil {
		s.pipelineError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleResume continues the pipeline from the session's checkpoint
// through all remaining steps.
func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.openSession(w, r)
	if !ok {
		return
	}
	req, ok := s.decodeStepRequest(w, r)
	if !ok {
		return
	}

	if err := s.runner.Resume(r.Context(), sess, req.ProfilePath, req.Keywords); err != nil {
		s.pipelineError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sessionResponse(sess))
}

// handleCheckpoint reports the session's progress.
func (s *Server) handleCheckpoint(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.openSession(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, sessionResponse(sess))
}

// handleDeleteSession removes a session and all its artifacts.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.runner.Store().Remove(r.PathValue("id")); err != nil {
		s.pipelineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// artifactSchemas maps editable JSON artifacts to the schema each upload
// must satisfy. final_resume_data.json has no schema of its own; it only
// needs to parse.
var artifactSchemas = map[string]string{
	session.FileIdealProfile:  schemas.IdealCandidateProfile,
	session.FileLegacyListing: schemas.JobListing,
	session.FileUserProfile:   schemas.UserProfile,
	session.FileTailored:      schemas.TailoredResume,
	session.FileMatchReport:   schemas.MatchReport,
	session.FileFinalResume:   "",
}

// artifactContentTypes covers every readable artifact.
var artifactContentTypes = map[string]string{
	session.FilePosting:       "text/markdown; charset=utf-8",
	session.FileIdealProfile:  "application/json",
	session.FileLegacyListing: "application/json",
	session.FileUserProfile:   "application/json",
	session.FileTailored:      "application/json",
	session.FileFinalResume:   "application/json",
	session.FileMatchReport:   "application/json",
	session.FileRenderedHTML:  "text/html; charset=utf-8",
}

// handleGetArtifact returns the raw bytes of a session artifact.
func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.openSession(w, r)
	if !ok {
		return
	}

	name := r.PathValue("name")
	contentType, known := artifactContentTypes[name]
	if !known {
		s.errorResponse(w, http.StatusNotFound, "unknown artifact: "+name)
		return
	}

	content, err := sess.ReadText(name)
	if err != nil {
		s.pipelineError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, content)
}

// handlePutArtifact replaces a session artifact with reviewed content.
// JSON artifacts are parse- and schema-validated before the stored file
// is touched, so an invalid upload leaves the previous bytes intact.
func (s *Server) handlePutArtifact(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.openSession(w, r)
	if !ok {
		return
	}

	name := r.PathValue("name")
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read body: "+err.Error())
		return
	}
	if len(body) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "artifact content is required")
		return
	}

	if schemaName, editable := artifactSchemas[name]; editable {
		if !json.Valid(body) {
			s.pipelineError(w, &session.FormatError{Artifact: name})
			return
		}
		if schemaName != "" {
			if err := schemas.Validate(schemaName, string(body)); err != nil {
				s.pipelineError(w, err)
				return
			}
		}
		if err := sess.ReplaceJSON(name, body); err != nil {
			s.pipelineError(w, err)
			return
		}
	} else if name == session.FilePosting {
		if err := sess.WriteText(name, string(body)); err != nil {
			s.pipelineError(w, err)
			return
		}
	} else {
		s.errorResponse(w, http.StatusNotFound, "artifact is not editable: "+name)
		return
	}

	s.jsonResponse(w, http.StatusOK, sessionResponse(sess))
}

// handleGetPDF streams the generated resume PDF.
func (s *Server) handleGetPDF(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.openSession(w, r)
	if !ok {
		return
	}

	data, err := os.ReadFile(sess.Path(session.FileResumePDF))
	if err != nil {
		s.pipelineError(w, &session.NotFoundError{SessionID: sess.ID, Artifact: session.FileResumePDF})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+session.FileResumePDF+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// openSession resolves the {id} path value to a session, writing the 404
// itself when the session does not exist.
func (s *Server) openSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.runner.Store().Open(r.PathValue("id"))
	if err != nil {
		s.pipelineError(w, err)
		return nil, false
	}
	return sess, true
}

// decodeStepRequest reads the optional JSON body of a step endpoint.
// An empty body is valid and yields zero options.
func (s *Server) decodeStepRequest(w http.ResponseWriter, r *http.Request) (StepRequest, bool) {
	var req StepRequest
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read body: "+err.Error())
		return req, false
	}
	if len(body) == 0 {
		return req, true
	}
	if err := json.Unmarshal(body, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return req, false
	}
	return req, true
}

func sessionResponse(sess *session.Session) SessionResponse {
	return SessionResponse{
		SessionID:    sess.ID,
		Checkpoint:   sess.Checkpoint().String(),
		AnalysisMode: sess.AnalysisMode().String(),
	}
}
