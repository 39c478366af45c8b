package session

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcus/resume-pilot/internal/types"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	store := NewStore(t.TempDir())
	sess, err := store.Create("Acme", "Engineer")
	require.NoError(t, err)
	return sess
}

func TestSession_TextRoundTrip(t *testing.T) {
	sess := newTestSession(t)

	require.NoError(t, sess.WriteText(FilePosting, "# Job Posting\n\nGo developer wanted."))
	got, err := sess.ReadText(FilePosting)
	require.NoError(t, err)
	assert.Equal(t, "# Job Posting\n\nGo developer wanted.", got)
}

func TestSession_ReadText_NotFound(t *testing.T) {
	sess := newTestSession(t)

	_, err := sess.ReadText(FilePosting)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, FilePosting, notFound.Artifact)
}

func TestSession_JSONRoundTrip(t *testing.T) {
	sess := newTestSession(t)

	profile := types.IdealCandidateProfile{
		TopTechnicalSkills: []string{"Go", "SQL"},
		TopSoftSkills:      []string{"communication"},
		ExperienceSummary:  "5+ years building backend services",
	}
	require.NoError(t, sess.WriteJSON(FileIdealProfile, profile))

	var got types.IdealCandidateProfile
	require.NoError(t, sess.ReadJSON(FileIdealProfile, &got))
	assert.Equal(t, profile, got)
}

func TestSession_ReadJSON_Malformed(t *testing.T) {
	sess := newTestSession(t)
	require.NoError(t, sess.WriteText(FileIdealProfile, "{not json"))

	var got types.IdealCandidateProfile
	err := sess.ReadJSON(FileIdealProfile, &got)
	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestSession_ReplaceJSON_InvalidLeavesPreviousIntact(t *testing.T) {
	sess := newTestSession(t)

	valid := []byte(`{"summary": "good content"}`)
	require.NoError(t, sess.ReplaceJSON(FileTailored, valid))

	err := sess.ReplaceJSON(FileTailored, []byte(`{"summary": broken`))
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)

	// The stored file still holds the last valid content.
	data, err := os.ReadFile(sess.Path(FileTailored))
	require.NoError(t, err)
	assert.Equal(t, valid, data)
}
