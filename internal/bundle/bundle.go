// Package bundle packs a session's artifacts into a flat zip archive and
// reconstructs sessions from such archives.
package bundle

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/marcus/resume-pilot/internal/session"
)

// BadArchiveError indicates a corrupt or unusable bundle archive.
type BadArchiveError struct {
	Message string
	Cause   error
}

func (e *BadArchiveError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("bad archive: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("bad archive: %s", e.Message)
}

func (e *BadArchiveError) Unwrap() error {
	return e.Cause
}

// bundled reports whether a filename belongs in a bundle.
func bundled(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".json", ".pdf":
		return true
	}
	return false
}

// Filename returns the bundle filename for a session. Store-created IDs
// are already path-safe, but Open accepts any basename directory a human
// may have dropped under the base dir, so the ID is sanitized again.
func Filename(sess *session.Session) string {
	return session.Sanitize(sess.ID, 100) + "_bundle.zip"
}

// Export collects every Markdown, JSON, and PDF file directly under the
// session directory into a zip archive. Filenames are stored flat and
// unchanged. Returns nil (and no error) when the session holds no
// matching files.
func Export(sess *session.Session) ([]byte, error) {
	entries, err := os.ReadDir(sess.Dir)
	if err != nil {
		return nil, &session.StoreError{Message: "failed to read session directory", Cause: err}
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !bundled(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		return nil, nil
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(sess.Dir, name))
		if err != nil {
			return nil, &session.StoreError{Message: "failed to read " + name, Cause: err}
		}
		w, err := zw.Create(name)
		if err != nil {
			return nil, &session.StoreError{Message: "failed to add " + name, Cause: err}
		}
		if _, err := w.Write(data); err != nil {
			return nil, &session.StoreError{Message: "failed to write " + name, Cause: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &session.StoreError{Message: "failed to finalize archive", Cause: err}
	}

	return buf.Bytes(), nil
}

// Import extracts a bundle into a freshly created session and reports the
// furthest pipeline stage the imported files reach. Entries with paths or
// foreign extensions are skipped; the archive reconstructs a session's
// file set, not its identity.
func Import(store *session.Store, data []byte, company, position string) (*session.Session, session.Stage, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, session.StageEmpty, &BadArchiveError{Message: "not a zip archive", Cause: err}
	}

	sess, err := store.Create(company, position)
	if err != nil {
		return nil, session.StageEmpty, err
	}
	// Do not leave an empty session behind when extraction fails
	ok := false
	defer func() {
		if !ok {
			_ = store.Remove(sess.ID)
		}
	}()

	var extracted int
	for _, file := range zr.File {
		if file.FileInfo().IsDir() {
			continue
		}
		name := file.Name
		if strings.Contains(name, "/") || strings.Contains(name, `\`) || !bundled(name) {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, session.StageEmpty, &BadArchiveError{Message: "failed to open " + name, Cause: err}
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, session.StageEmpty, &BadArchiveError{Message: "failed to extract " + name, Cause: err}
		}

		if err := os.WriteFile(sess.Path(name), content, 0o644); err != nil {
			return nil, session.StageEmpty, &session.StoreError{Message: "failed to write " + name, Cause: err}
		}
		extracted++
	}

	if extracted == 0 {
		return nil, session.StageEmpty, &BadArchiveError{Message: "archive contains no session files"}
	}

	ok = true
	return sess, sess.Checkpoint(), nil
}
