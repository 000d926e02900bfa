package output

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/agentstation/tokenmap/pkg/tokens"
)

// Catalog identity.
const (
	ListName    = "Rainbow Token List"
	ListLogoURI = "https://avatars0.githubusercontent.com/u/48327834?s=200&v=4"
	ListKeyword = "rainbow"
)

// TimestampFormat is ISO-8601 in UTC with millisecond precision.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Version is the catalog schema version.
type Version struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// DefaultVersion is the version written unless configured otherwise.
var DefaultVersion = Version{Major: 1, Minor: 2, Patch: 1}

// Envelope is the top-level document of a catalog artifact.
type Envelope struct {
	Name      string         `json:"name"`
	LogoURI   string         `json:"logoURI"`
	Keywords  []string       `json:"keywords"`
	Timestamp string         `json:"timestamp"`
	Version   Version        `json:"version"`
	Tokens    []tokens.Token `json:"tokens"`
}

// NewEnvelope wraps toks in the catalog envelope stamped at ts.
func NewEnvelope(toks []tokens.Token, ts time.Time, version Version) Envelope {
	if toks == nil {
		toks = []tokens.Token{}
	}
	return Envelope{
		Name:      ListName,
		LogoURI:   ListLogoURI,
		Keywords:  []string{ListKeyword},
		Timestamp: ts.UTC().Format(TimestampFormat),
		Version:   version,
		Tokens:    toks,
	}
}

// Marshal returns the envelope as JSON indented by two spaces.
func (e Envelope) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
