package session

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Artifact filenames within a session directory. These names are the
// persisted interface other tooling (and bundle import/export) agrees on.
const (
	FilePosting       = "job_posting.md"
	FileIdealProfile  = "ideal_candidate_profile.json"
	FileLegacyListing = "structured_job_data.json"
	FileUserProfile   = "user_profile.json"
	FileTailored      = "tailored_resume_content.json"
	FileFinalResume   = "final_resume_data.json"
	FileRenderedHTML  = "rendered_resume.html"
	FileResumePDF     = "tailored_resume.pdf"
	FileMatchReport   = "ats_validation.json"
)

// Session is a handle to one session directory. The directory is the unit
// of ownership: created once, mutated by successive pipeline steps.
type Session struct {
	ID  string
	Dir string
}

// Path returns the absolute path of an artifact within the session.
func (s *Session) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Has reports whether an artifact file exists.
func (s *Session) Has(name string) bool {
	info, err := os.Stat(s.Path(name))
	return err == nil && !info.IsDir()
}

// ReadText reads a text artifact. A missing file is a NotFoundError.
func (s *Session) ReadText(name string) (string, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{SessionID: s.ID, Artifact: name}
		}
		return "", &StoreError{Message: "failed to read " + name, Cause: err}
	}
	return string(data), nil
}

// WriteText writes a text artifact, replacing any previous content.
func (s *Session) WriteText(name, content string) error {
	if err := os.WriteFile(s.Path(name), []byte(content), 0o644); err != nil {
		return &StoreError{Message: "failed to write " + name, Cause: err}
	}
	return nil
}

// ReadJSON reads and unmarshals a JSON artifact into v. A missing file is a
// NotFoundError; undecodable content is a FormatError (the artifact may have
// been hand-edited between steps).
func (s *Session) ReadJSON(name string, v any) error {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{SessionID: s.ID, Artifact: name}
		}
		return &StoreError{Message: "failed to read " + name, Cause: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &FormatError{Artifact: name, Cause: err}
	}
	return nil
}

// WriteJSON marshals v with indentation and writes it as a JSON artifact.
func (s *Session) WriteJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return &StoreError{Message: "failed to marshal " + name, Cause: err}
	}
	return s.WriteText(name, string(data))
}

// ReplaceJSON writes raw JSON content to an artifact, but only after the
// content parses. On a parse failure the previously stored file is left
// untouched so a bad edit never destroys the last good state.
func (s *Session) ReplaceJSON(name string, content []byte) error {
	var probe any
	if err := json.Unmarshal(content, &probe); err != nil {
		return &FormatError{Artifact: name, Cause: err}
	}
	return s.WriteText(name, string(content))
}
