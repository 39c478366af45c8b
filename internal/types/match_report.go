package types

// MatchReport is the ATS-style comparison of the rendered resume against the
// original job posting.
type MatchReport struct {
	// Score is the overall match score, 0-100.
	Score int `json:"score"`
	// MatchingKeywords are the strongest requirements the resume covers.
	// Typically 5-7 entries.
	MatchingKeywords []string `json:"matching_keywords"`
	// MissingKeywords are the most important requirements the resume does
	// not cover. Typically 5-7 entries.
	MissingKeywords []string `json:"missing_keywords"`
	// Summary is a short rationale for the score.
	Summary string `json:"summary"`
}
