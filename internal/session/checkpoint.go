package session

// Stage identifies the furthest pipeline checkpoint whose output artifact is
// present in a session.
type Stage int

// Pipeline checkpoints, in progression order.
const (
	StageEmpty Stage = iota
	StagePosting
	StageLegacyAnalysis
	StageAnalyzed
	StageBuilt
)

func (s Stage) String() string {
	switch s {
	case StagePosting:
		return "posting"
	case StageLegacyAnalysis:
		return "legacy_analysis"
	case StageAnalyzed:
		return "analyzed"
	case StageBuilt:
		return "built"
	default:
		return "empty"
	}
}

// AnalysisMode selects which generation of analysis schema a session holds.
// It is resolved once from file presence rather than re-sniffed per step.
type AnalysisMode int

// Analysis schema generations.
const (
	ModeNone AnalysisMode = iota
	ModeIdealProfile
	ModeLegacy
)

func (m AnalysisMode) String() string {
	switch m {
	case ModeIdealProfile:
		return "ideal_profile"
	case ModeLegacy:
		return "legacy"
	default:
		return "none"
	}
}

// Checkpoint inspects the session's files in priority order and returns the
// furthest stage reached. The built resume wins over analysis output, which
// wins over the bare posting.
func (s *Session) Checkpoint() Stage {
	switch {
	case s.Has(FileTailored):
		return StageBuilt
	case s.Has(FileIdealProfile):
		return StageAnalyzed
	case s.Has(FileLegacyListing):
		return StageLegacyAnalysis
	case s.Has(FilePosting):
		return StagePosting
	default:
		return StageEmpty
	}
}

// AnalysisMode reports which analysis schema the session carries. When both
// generations are present the ideal-profile file wins.
func (s *Session) AnalysisMode() AnalysisMode {
	switch {
	case s.Has(FileIdealProfile):
		return ModeIdealProfile
	case s.Has(FileLegacyListing):
		return ModeLegacy
	default:
		return ModeNone
	}
}
