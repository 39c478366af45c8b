package ingestion

import (
	"net/url"
	"strings"
)

// TransformJobBoardURL rewrites known job board search URLs into direct
// job view URLs. Workopolis search result links carry the posting id in a
// "job" query parameter; the direct viewjob URL serves the full posting.
// URLs that do not match a known pattern are returned unchanged, as are
// URLs that fail to parse. The transform is idempotent.
func TransformJobBoardURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	host := strings.ToLower(parsed.Hostname())
	if !strings.HasSuffix(host, "workopolis.com") {
		return rawURL
	}
	if !strings.Contains(parsed.Path, "/search") {
		return rawURL
	}

	jobID := parsed.Query().Get("job")
	if jobID == "" {
		return rawURL
	}

	return "https://www.workopolis.com/jobsearch/viewjob/" + jobID
}
