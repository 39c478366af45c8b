package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcus/resume-pilot/internal/config"
	"github.com/marcus/resume-pilot/internal/pipeline"
	"github.com/marcus/resume-pilot/internal/session"
)

// scriptedClient answers prompts from canned responses keyed by a
// substring of the system prompt.
type scriptedClient struct {
	responses map[string]string
}

func (c *scriptedClient) GenerateJSON(_ context.Context, systemPrompt, _ string) (string, error) {
	for key, out := range c.responses {
		if strings.Contains(systemPrompt, key) {
			return out, nil
		}
	}
	return "", errors.New("no scripted response for prompt")
}

func (c *scriptedClient) Model() string { return "scripted" }
func (c *scriptedClient) Close() error  { return nil }

type stubEngine struct{}

func (stubEngine) RenderHTMLToPDF(context.Context, string) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Defaults()
	store := session.NewStore(t.TempDir())
	client := &scriptedClient{responses: map[string]string{
		"expert HR analyst": `{
			"top_technical_skills": ["Go", "PostgreSQL"],
			"top_soft_skills": ["Communication"],
			"experience_summary": "Backend developer"
		}`,
		"structured data extraction": `{"company_name": "Acme", "keywords": ["go"]}`,
		"Work Experience": `{"work_experience": [{
			"company": "TestCo",
			"position": "Developer",
			"date": "2019 - Present",
			"description": ["Shipped the widget service."]
		}]}`,
		"'Skills' section":     `{"skills": [{"category": "Languages", "entries": ["Go"]}]}`,
		"professional summary": `{"summary": "Backend developer who ships."}`,
	}}
	runner := pipeline.NewRunner(&cfg, store, client, stubEngine{}, io.Discard)
	return New(&cfg, runner)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func doRaw(t *testing.T, srv *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, srv *Server) string {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/sessions", CreateSessionRequest{
		Company:  "Acme",
		Position: "Engineer",
		JobText:  "# Go Developer\n\nGo and PostgreSQL required.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "posting", resp.Checkpoint)
	return resp.SessionID
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateSession_RequiresSource(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/sessions", CreateSessionRequest{
		Company:  "Acme",
		Position: "Engineer",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSession_RequiresCompanyAndPosition(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/sessions", CreateSessionRequest{
		JobText: "posting",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSession_StoresProfileUpload(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/sessions", CreateSessionRequest{
		Company:  "Acme",
		Position: "Engineer",
		JobText:  "# Posting",
		Profile:  json.RawMessage(minimalProfile),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	sess, err := srv.runner.Store().Open(resp.SessionID)
	require.NoError(t, err)
	assert.True(t, sess.Has(session.FileUserProfile))
}

func TestCreateSession_RejectsInvalidProfile(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/sessions", CreateSessionRequest{
		Company:  "Acme",
		Position: "Engineer",
		JobText:  "# Posting",
		Profile:  json.RawMessage(`{"personal_info": {}}`),
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAnalyze(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/sessions/"+id+"/analyze", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Backend developer")

	rec = doJSON(t, srv, http.MethodGet, "/sessions/"+id+"/checkpoint", nil)
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "analyzed", resp.Checkpoint)
	assert.Equal(t, "ideal_profile", resp.AnalysisMode)
}

func TestAnalyze_LegacyMode(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/sessions/"+id+"/analyze?mode=legacy", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodGet, "/sessions/"+id+"/checkpoint", nil)
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "legacy_analysis", resp.Checkpoint)
	assert.Equal(t, "legacy", resp.AnalysisMode)
}

func TestAnalyze_SessionNotFound(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/sessions/nope/analyze", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuild_MissingDependency(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	// Build before analyze: the ideal profile artifact is missing.
	rec := doJSON(t, srv, http.MethodPost, "/sessions/"+id+"/build", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPipelineThroughRender(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/sessions/"+id+"/analyze", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodPost, "/sessions/"+id+"/build", StepRequest{
		Keywords: []string{"Kubernetes"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Backend developer who ships.")

	rec = doJSON(t, srv, http.MethodPost, "/sessions/"+id+"/render", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodGet, "/sessions/"+id+"/resume.pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	// The stub engine's output is not a parseable PDF, so scoring fails
	// upstream rather than on input.
	rec = doJSON(t, srv, http.MethodPost, "/sessions/"+id+"/score", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetPDF_NotFound(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/sessions/"+id+"/resume.pdf", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetArtifact(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/sessions/"+id+"/artifacts/job_posting.md", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Go Developer")
}

func TestGetArtifact_Unknown(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/sessions/"+id+"/artifacts/secrets.txt", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetArtifact_Missing(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/sessions/"+id+"/artifacts/ats_validation.json", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPutArtifact_ReplacesJSON(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	report := `{
		"score": 88,
		"matching_keywords": ["go"],
		"missing_keywords": [],
		"summary": "Strong match."
	}`
	rec := doRaw(t, srv, http.MethodPut, "/sessions/"+id+"/artifacts/ats_validation.json", []byte(report))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	sess, err := srv.runner.Store().Open(id)
	require.NoError(t, err)
	stored, err := sess.ReadText(session.FileMatchReport)
	require.NoError(t, err)
	assert.Contains(t, stored, "Strong match.")
}

func TestPutArtifact_InvalidJSONLeavesFileUntouched(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	sess, err := srv.runner.Store().Open(id)
	require.NoError(t, err)
	original := `{
		"score": 50,
		"matching_keywords": [],
		"missing_keywords": [],
		"summary": "Original."
	}`
	require.NoError(t, sess.WriteText(session.FileMatchReport, original))

	rec := doRaw(t, srv, http.MethodPut, "/sessions/"+id+"/artifacts/ats_validation.json", []byte("{not json"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	stored, err := sess.ReadText(session.FileMatchReport)
	require.NoError(t, err)
	assert.Equal(t, original, stored)
}

func TestPutArtifact_SchemaViolationRejected(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	// Parses fine but the score is out of range.
	report := `{
		"score": 150,
		"matching_keywords": [],
		"missing_keywords": [],
		"summary": "Too good."
	}`
	rec := doRaw(t, srv, http.MethodPut, "/sessions/"+id+"/artifacts/ats_validation.json", []byte(report))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPutArtifact_PDFNotEditable(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	rec := doRaw(t, srv, http.MethodPut, "/sessions/"+id+"/artifacts/tailored_resume.pdf", []byte("%PDF"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBundleRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/sessions/"+id+"/analyze", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodGet, "/sessions/"+id+"/bundle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	archive := rec.Body.Bytes()

	rec = doRaw(t, srv, http.MethodPost, "/sessions/import?company=Acme&position=Engineer", archive)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEqual(t, id, resp.SessionID)
	assert.Equal(t, "analyzed", resp.Checkpoint)
}

func TestImportBundle_BadArchive(t *testing.T) {
	srv := newTestServer(t)
	rec := doRaw(t, srv, http.MethodPost, "/sessions/import?company=Acme&position=Engineer", []byte("not a zip"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportBundle_RequiresIdentity(t *testing.T) {
	srv := newTestServer(t)
	rec := doRaw(t, srv, http.MethodPost, "/sessions/import", []byte{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteSession(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	rec := doJSON(t, srv, http.MethodDelete, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/sessions/"+id+"/checkpoint", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

const minimalProfile = `{
	"personal_info": {
		"name": "Alex Morgan",
		"location": "Toronto, ON",
		"email": "alex@example.com",
		"phone_number": "555-0101",
		"linkedin_url": "linkedin.com/in/alexmorgan"
	},
	"work_experience": [{
		"company": "TestCo",
		"position": "Developer",
		"date": "2019 - Present",
		"achievements": [{"text": "Shipped the widget service.", "tags": ["backend"]}]
	}]
}`
