// Package profile loads the user's master profile, the comprehensive
// record of experience that tailoring selects from.
package profile

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/marcus/resume-pilot/internal/schemas"
	"github.com/marcus/resume-pilot/internal/session"
)

//go:embed default_profile.json
var defaultProfile []byte

// Error represents a failure loading or parsing a user profile.
type Error struct {
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("profile %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("profile %s: %s", e.Path, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// PersonalInfo holds contact details used for the resume header.
type PersonalInfo struct {
	Name        string `json:"name"`
	Location    string `json:"location,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
}

// UserProfile is the master profile document. The full document is kept
// as raw JSON so that sections copied verbatim into the resume survive
// byte for byte.
type UserProfile struct {
	raw    []byte
	fields map[string]json.RawMessage
}

// Parse validates and wraps raw profile JSON.
func Parse(data []byte) (*UserProfile, error) {
	return parseAt("(inline)", data)
}

func parseAt(path string, data []byte) (*UserProfile, error) {
	if err := schemas.Validate(schemas.UserProfile, string(data)); err != nil {
		return nil, &Error{Path: path, Message: "invalid profile", Cause: err}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &Error{Path: path, Message: "invalid JSON", Cause: err}
	}

	return &UserProfile{raw: data, fields: fields}, nil
}

// Load reads and parses a profile file from disk.
func Load(path string) (*UserProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Message: "read failed", Cause: err}
	}
	return parseAt(path, data)
}

// Default returns the embedded default profile.
func Default() *UserProfile {
	p, err := Parse(defaultProfile)
	if err != nil {
		panic(fmt.Sprintf("embedded default profile is invalid: %v", err))
	}
	return p
}

// Resolve loads the profile for a session. The session's own profile
// artifact wins; otherwise an explicit path is used; otherwise the
// embedded default is copied into the session so later runs see the same
// profile the build used.
func Resolve(sess *session.Session, explicitPath string) (*UserProfile, error) {
	if sess.Has(session.FileUserProfile) {
		return Load(sess.Path(session.FileUserProfile))
	}

	var p *UserProfile
	if strings.TrimSpace(explicitPath) != "" {
		loaded, err := Load(explicitPath)
		if err != nil {
			return nil, err
		}
		p = loaded
	} else {
		p = Default()
	}

	if err := sess.WriteText(session.FileUserProfile, string(p.raw)); err != nil {
		return nil, err
	}
	return p, nil
}

// JSON returns the full profile document as raw JSON.
func (p *UserProfile) JSON() []byte {
	return p.raw
}

// PersonalInfo returns the contact details section.
func (p *UserProfile) PersonalInfo() (PersonalInfo, error) {
	var info PersonalInfo
	raw, ok := p.fields["personal_info"]
	if !ok {
		return info, &Error{Path: "(profile)", Message: "missing personal_info"}
	}
	if err := json.Unmarshal(raw, &info); err != nil {
		return info, &Error{Path: "(profile)", Message: "invalid personal_info", Cause: err}
	}
	return info, nil
}

// Education returns the education section verbatim, or an empty JSON
// array when absent.
func (p *UserProfile) Education() json.RawMessage {
	return p.section("education")
}

// Projects returns the projects section verbatim, or an empty JSON array
// when absent.
func (p *UserProfile) Projects() json.RawMessage {
	return p.section("projects")
}

func (p *UserProfile) section(name string) json.RawMessage {
	if raw, ok := p.fields[name]; ok {
		return raw
	}
	return json.RawMessage("[]")
}
