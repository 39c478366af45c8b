package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Checkpoint_Progression(t *testing.T) {
	sess := newTestSession(t)
	assert.Equal(t, StageEmpty, sess.Checkpoint())

	require.NoError(t, sess.WriteText(FilePosting, "posting"))
	assert.Equal(t, StagePosting, sess.Checkpoint())

	require.NoError(t, sess.WriteText(FileLegacyListing, "{}"))
	assert.Equal(t, StageLegacyAnalysis, sess.Checkpoint())

	require.NoError(t, sess.WriteText(FileIdealProfile, "{}"))
	assert.Equal(t, StageAnalyzed, sess.Checkpoint())

	require.NoError(t, sess.WriteText(FileTailored, "{}"))
	assert.Equal(t, StageBuilt, sess.Checkpoint())
}

func TestSession_AnalysisMode(t *testing.T) {
	sess := newTestSession(t)
	assert.Equal(t, ModeNone, sess.AnalysisMode())

	require.NoError(t, sess.WriteText(FileLegacyListing, "{}"))
	assert.Equal(t, ModeLegacy, sess.AnalysisMode())

	// The ideal-profile generation wins when both files exist.
	require.NoError(t, sess.WriteText(FileIdealProfile, "{}"))
	assert.Equal(t, ModeIdealProfile, sess.AnalysisMode())
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "empty", StageEmpty.String())
	assert.Equal(t, "posting", StagePosting.String())
	assert.Equal(t, "legacy_analysis", StageLegacyAnalysis.String())
	assert.Equal(t, "analyzed", StageAnalyzed.String())
	assert.Equal(t, "built", StageBuilt.String())
}
