package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcus/resume-pilot/internal/session"
)

// stubClient returns canned JSON and records prompts it was given.
type stubClient struct {
	output     string
	err        error
	lastUser   string
	lastSystem string
}

func (s *stubClient) GenerateJSON(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	s.lastSystem = systemPrompt
	s.lastUser = userPrompt
	if s.err != nil {
		return "", s.err
	}
	return s.output, nil
}

func (s *stubClient) Model() string { return "stub" }
func (s *stubClient) Close() error  { return nil }

func newSessionWithPosting(t *testing.T) *session.Session {
	t.Helper()
	store := session.NewStore(t.TempDir())
	sess, err := store.Create("Acme", "Engineer")
	require.NoError(t, err)
	require.NoError(t, sess.WriteText(session.FilePosting, "# Go Developer\n\nBuild backend services."))
	return sess
}

func TestAnalyzeIdealProfile_Success(t *testing.T) {
	sess := newSessionWithPosting(t)
	client := &stubClient{output: `{
		"top_technical_skills": ["Go", "PostgreSQL"],
		"top_soft_skills": ["Communication"],
		"experience_summary": "Backend developer with 5+ years in Go"
	}`}

	profile, err := AnalyzeIdealProfile(context.Background(), sess, client)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, profile.TopTechnicalSkills)
	assert.Equal(t, "Backend developer with 5+ years in Go", profile.ExperienceSummary)

	assert.True(t, sess.Has(session.FileIdealProfile))
	assert.Contains(t, client.lastUser, "Build backend services.")
	assert.Contains(t, client.lastSystem, "IdealCandidateProfile")
}

func TestAnalyzeIdealProfile_MissingPosting(t *testing.T) {
	store := session.NewStore(t.TempDir())
	sess, err := store.Create("Acme", "Engineer")
	require.NoError(t, err)

	_, err = AnalyzeIdealProfile(context.Background(), sess, &stubClient{output: "{}"})
	require.Error(t, err)

	var notFound *session.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestAnalyzeIdealProfile_InvalidOutput(t *testing.T) {
	sess := newSessionWithPosting(t)
	client := &stubClient{output: `{"top_technical_skills": ["Go"]}`}

	_, err := AnalyzeIdealProfile(context.Background(), sess, client)
	require.Error(t, err)

	var analysisErr *Error
	assert.ErrorAs(t, err, &analysisErr)

	// Nothing persisted when validation fails
	assert.False(t, sess.Has(session.FileIdealProfile))
}

func TestAnalyzeIdealProfile_ClientFailure(t *testing.T) {
	sess := newSessionWithPosting(t)
	client := &stubClient{err: errors.New("rate limited")}

	_, err := AnalyzeIdealProfile(context.Background(), sess, client)
	require.Error(t, err)
	assert.False(t, sess.Has(session.FileIdealProfile))
}

func TestAnalyzeLegacyListing_Success(t *testing.T) {
	sess := newSessionWithPosting(t)
	client := &stubClient{output: `{
		"company_name": "Acme",
		"position_title": "Go Developer",
		"keywords": ["go", "backend"],
		"work_location": "remote"
	}`}

	listing, err := AnalyzeLegacyListing(context.Background(), sess, client)
	require.NoError(t, err)
	require.NotNil(t, listing.CompanyName)
	assert.Equal(t, "Acme", *listing.CompanyName)
	assert.Equal(t, []string{"go", "backend"}, listing.Keywords)

	assert.True(t, sess.Has(session.FileLegacyListing))
}

func TestAnalyzeLegacyListing_BadEnumRejected(t *testing.T) {
	sess := newSessionWithPosting(t)
	client := &stubClient{output: `{"work_location": "underwater"}`}

	_, err := AnalyzeLegacyListing(context.Background(), sess, client)
	require.Error(t, err)
	assert.False(t, sess.Has(session.FileLegacyListing))
}

func TestAnalyzeIdealProfile_OutputStoredIndented(t *testing.T) {
	sess := newSessionWithPosting(t)
	client := &stubClient{output: `{"top_technical_skills":["Go"],"top_soft_skills":[],"experience_summary":"x"}`}

	_, err := AnalyzeIdealProfile(context.Background(), sess, client)
	require.NoError(t, err)

	stored, err := sess.ReadText(session.FileIdealProfile)
	require.NoError(t, err)
	assert.Contains(t, stored, "\n    \"top_technical_skills\"")
}
