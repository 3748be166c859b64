package issues

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/tier4/mapvalidator/schema"
)

// DefaultLanguage is used when a message has no text in the requested language.
const DefaultLanguage = "en"

//go:embed issues_info.json
var defaultCatalog []byte

// Entry is the catalog description of one issue code.
type Entry struct {
	Code     string
	Severity schema.Severity
	Subject  schema.SubjectKind
	Messages map[string]string // language -> template
}

// Message returns the template for lang, falling back to DefaultLanguage.
func (e Entry) Message(lang string) string {
	if msg, ok := e.Messages[lang]; ok {
		return msg
	}
	return e.Messages[DefaultLanguage]
}

type rawEntry struct {
	Severity  string            `json:"severity"`
	Primitive string            `json:"primitive"`
	Message   map[string]string `json:"message"`
}

// Catalog maps issue codes to their severity, subject kind and messages.
// It is read-only once loaded.
type Catalog struct {
	entries  map[string]Entry
	language string
}

// Default returns the catalog shipped with the binary.
func Default() *Catalog {
	c, err := Parse(bytes.NewReader(defaultCatalog))
	if err != nil {
		panic(fmt.Sprintf("embedded issues catalog is invalid: %v", err))
	}
	return c
}

// LoadFile reads a catalog from a JSON file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open issues catalog: %w", err)
	}
	defer func() { _ = f.Close() }()
	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read issues catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse reads a catalog from JSON keyed by issue code.
func Parse(r io.Reader) (*Catalog, error) {
	var raw map[string]rawEntry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}
	c := &Catalog{entries: make(map[string]Entry, len(raw)), language: DefaultLanguage}
	for code, re := range raw {
		sev, err := schema.ParseSeverity(re.Severity)
		if err != nil || sev == schema.SeverityNone {
			return nil, fmt.Errorf("issue %s: invalid severity %q", code, re.Severity)
		}
		subject := schema.SubjectKind(re.Primitive)
		if _, ok := schema.ValidSubjectKinds[subject]; !ok {
			return nil, fmt.Errorf("issue %s: invalid primitive %q", code, re.Primitive)
		}
		if _, ok := re.Message[DefaultLanguage]; !ok {
			return nil, fmt.Errorf("issue %s: missing %q message", code, DefaultLanguage)
		}
		messages := make(map[string]string, len(re.Message))
		for lang, msg := range re.Message {
			inline, text := SplitCode(msg)
			if inline != "" && inline != code {
				return nil, fmt.Errorf("issue %s: %s message is tagged with %s", code, lang, inline)
			}
			messages[lang] = text
		}
		c.entries[code] = Entry{Code: code, Severity: sev, Subject: subject, Messages: messages}
	}
	return c, nil
}

// WithLanguage returns a catalog sharing the same entries that renders messages in lang.
func (c *Catalog) WithLanguage(lang string) *Catalog {
	return &Catalog{entries: c.entries, language: lang}
}

// Language returns the language messages are rendered in.
func (c *Catalog) Language() string {
	return c.language
}

// Lookup returns the entry for code.
func (c *Catalog) Lookup(code string) (Entry, bool) {
	e, ok := c.entries[code]
	return e, ok
}

// Codes returns every code of the catalog, sorted.
func (c *Catalog) Codes() []string {
	return slices.Sorted(maps.Keys(c.entries))
}

// Construct builds the finding for code about subject id, substituting subs into its message.
func (c *Catalog) Construct(code string, id int64, subs map[string]string) (schema.Finding, error) {
	e, ok := c.entries[code]
	if !ok {
		return schema.Finding{}, fmt.Errorf("issue code %s is not in the catalog", code)
	}
	return schema.Finding{
		Severity:    e.Severity,
		SubjectKind: e.Subject,
		SubjectID:   id,
		Code:        code,
		Message:     Format(e.Message(c.language), subs),
	}, nil
}
