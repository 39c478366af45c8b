package ingestion

import "fmt"

// EmptyInputError indicates that neither a URL nor inline posting text
// was provided, or that the provided text was blank.
type EmptyInputError struct {
	Message string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("empty input: %s", e.Message)
}

// ScrapeError indicates a failure to retrieve posting content from a URL.
type ScrapeError struct {
	URL   string
	Cause error
}

func (e *ScrapeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to scrape %s: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("failed to scrape %s", e.URL)
}

func (e *ScrapeError) Unwrap() error {
	return e.Cause
}
