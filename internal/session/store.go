package session

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	companyLabelMax  = 15
	positionLabelMax = 20
)

// Store creates and manages session directories under a base directory.
type Store struct {
	baseDir string
}

// NewStore returns a Store rooted at baseDir. The directory is created on
// first Create, not here.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// BaseDir returns the directory sessions are created under.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// Create builds a unique session directory named
// <yymmddHHMMSS>_<company>_<position>_<token> and returns its handle.
// The random token makes collisions vanishingly unlikely; no re-check is
// performed.
func (s *Store) Create(company, position string) (*Session, error) {
	safeCompany := SanitizeCompact(company, companyLabelMax)
	if safeCompany == "" {
		safeCompany = "company"
	}
	safePosition := SanitizeCompact(position, positionLabelMax)
	if safePosition == "" {
		safePosition = "position"
	}

	token := strings.Split(uuid.NewString(), "-")[0]
	id := fmt.Sprintf("%s_%s_%s_%s", time.Now().Format("060102150405"), safeCompany, safePosition, token)

	dir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StoreError{Message: "failed to create session directory", Cause: err}
	}

	return &Session{ID: id, Dir: dir}, nil
}

// Open returns a handle to an existing session, or a NotFoundError if the
// directory does not exist.
func (s *Store) Open(id string) (*Session, error) {
	// Reject anything that could escape the base directory. filepath.Base
	// leaves "." and ".." intact, so they need their own check.
	if id == "" || id == "." || id == ".." || id != filepath.Base(id) {
		return nil, &NotFoundError{SessionID: id, Artifact: "session directory"}
	}

	dir := filepath.Join(s.baseDir, id)
	if filepath.Dir(dir) != filepath.Clean(s.baseDir) {
		return nil, &NotFoundError{SessionID: id, Artifact: "session directory"}
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, &NotFoundError{SessionID: id, Artifact: "session directory"}
	}

	return &Session{ID: id, Dir: dir}, nil
}

// Remove deletes a session directory and everything in it.
func (s *Store) Remove(id string) error {
	sess, err := s.Open(id)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(sess.Dir); err != nil {
		return &StoreError{Message: fmt.Sprintf("failed to remove session %s", id), Cause: err}
	}
	return nil
}

// Cleanup removes sessions older than retentionDays, judged by directory
// modification time. Failures on individual sessions are logged and the
// scan continues; only a failure to read the base directory is an error.
// Returns the number of sessions removed.
func (s *Store) Cleanup(retentionDays int) (int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, &StoreError{Message: "failed to scan base directory", Cause: err}
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			log.Printf("cleanup: could not stat %s: %v", entry.Name(), err)
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.baseDir, entry.Name())); err != nil {
			log.Printf("cleanup: could not remove %s: %v", entry.Name(), err)
			continue
		}
		removed++
	}
	return removed, nil
}
