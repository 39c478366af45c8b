package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcus/resume-pilot/internal/session"
)

type stubClient struct {
	output   string
	err      error
	lastUser string
}

func (s *stubClient) GenerateJSON(_ context.Context, _, userPrompt string) (string, error) {
	s.lastUser = userPrompt
	if s.err != nil {
		return "", s.err
	}
	return s.output, nil
}

func (s *stubClient) Model() string { return "stub" }
func (s *stubClient) Close() error  { return nil }

func newScoreReadySession(t *testing.T) *session.Session {
	t.Helper()
	store := session.NewStore(t.TempDir())
	sess, err := store.Create("Acme", "Engineer")
	require.NoError(t, err)
	require.NoError(t, sess.WriteText(session.FilePosting, "# Go Developer\n\nGo and SQL required."))
	require.NoError(t, sess.WriteText(session.FileResumePDF, "%PDF-1.4 placeholder"))
	return sess
}

func withExtractedText(t *testing.T, text string, err error) {
	t.Helper()
	orig := extractText
	extractText = func(string) (string, error) { return text, err }
	t.Cleanup(func() { extractText = orig })
}

const goodReport = `{
	"score": 82,
	"matching_keywords": ["Go", "SQL"],
	"missing_keywords": ["Kubernetes"],
	"summary": "Strong technical match."
}`

func TestScore_Success(t *testing.T) {
	sess := newScoreReadySession(t)
	withExtractedText(t, "Alex Morgan\nGo developer with SQL experience", nil)
	client := &stubClient{output: goodReport}

	report, err := Score(context.Background(), sess, client)
	require.NoError(t, err)
	assert.Equal(t, 82, report.Score)
	assert.Equal(t, []string{"Go", "SQL"}, report.MatchingKeywords)

	assert.True(t, sess.Has(session.FileMatchReport))
	assert.Contains(t, client.lastUser, "Go and SQL required.")
	assert.Contains(t, client.lastUser, "Go developer with SQL experience")
}

func TestScore_NoPDF(t *testing.T) {
	store := session.NewStore(t.TempDir())
	sess, err := store.Create("Acme", "Engineer")
	require.NoError(t, err)
	require.NoError(t, sess.WriteText(session.FilePosting, "posting"))

	_, err = Score(context.Background(), sess, &stubClient{output: goodReport})
	require.Error(t, err)

	var notFound *session.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestScore_EmptyExtraction(t *testing.T) {
	sess := newScoreReadySession(t)
	withExtractedText(t, "   \n  ", nil)

	_, err := Score(context.Background(), sess, &stubClient{output: goodReport})
	require.Error(t, err)

	var emptyErr *EmptyExtractionError
	assert.ErrorAs(t, err, &emptyErr)
	assert.False(t, sess.Has(session.FileMatchReport))
}

func TestScore_MissingPosting(t *testing.T) {
	store := session.NewStore(t.TempDir())
	sess, err := store.Create("Acme", "Engineer")
	require.NoError(t, err)
	require.NoError(t, sess.WriteText(session.FileResumePDF, "%PDF"))
	withExtractedText(t, "resume text", nil)

	_, err = Score(context.Background(), sess, &stubClient{output: goodReport})
	require.Error(t, err)

	var notFound *session.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, session.FilePosting, notFound.Artifact)
}

func TestScore_InvalidReportRejected(t *testing.T) {
	sess := newScoreReadySession(t)
	withExtractedText(t, "resume text", nil)
	client := &stubClient{output: `{"score": 150, "matching_keywords": [], "missing_keywords": [], "summary": "x"}`}

	_, err := Score(context.Background(), sess, client)
	require.Error(t, err)

	var scoringErr *Error
	assert.ErrorAs(t, err, &scoringErr)
	assert.False(t, sess.Has(session.FileMatchReport))
}

func TestScore_ClientFailure(t *testing.T) {
	sess := newScoreReadySession(t)
	withExtractedText(t, "resume text", nil)
	client := &stubClient{err: errors.New("rate limited")}

	_, err := Score(context.Background(), sess, client)
	require.Error(t, err)
	assert.False(t, sess.Has(session.FileMatchReport))
}
