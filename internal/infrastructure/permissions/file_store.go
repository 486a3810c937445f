// Package permissions provides the file-backed permissions manager.
package permissions

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apperrors "github.com/Shadowhackercz/AuthMeReloaded/internal/application/errors"
	"github.com/goccy/go-yaml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/permissions.schema.json
var schemaBytes []byte

const schemaURL = "permissions.schema.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaBytes)); err != nil {
		return nil, fmt.Errorf("failed to add permissions schema: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// Document is the on-disk permissions file.
type Document struct {
	Groups  map[string][]string    `yaml:"groups,omitempty"`
	Players map[string]PlayerEntry `yaml:"players,omitempty"`
	Ops     []string               `yaml:"ops,omitempty"`
	Rules   []RuleEntry            `yaml:"rules,omitempty"`
}

// PlayerEntry lists the groups and nodes of one player, keyed by name or UUID.
type PlayerEntry struct {
	Groups []string `yaml:"groups,omitempty"`
	Nodes  []string `yaml:"nodes,omitempty"`
}

// RuleEntry grants nodes to every sender for which Expr evaluates to true.
type RuleEntry struct {
	Name  string   `yaml:"name,omitempty"`
	Expr  string   `yaml:"expr"`
	Nodes []string `yaml:"nodes"`
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{
		Groups:  make(map[string][]string),
		Players: make(map[string]PlayerEntry),
	}
}

// ParseDocument validates data against the permissions schema and decodes it.
// Empty input yields an empty document.
func ParseDocument(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewDocument(), nil
	}

	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse permissions YAML: %w", err)
	}
	if len(bytes.TrimSpace(jsonData)) == 0 {
		return NewDocument(), nil
	}
	var instance any
	if err := json.Unmarshal(jsonData, &instance); err != nil {
		return nil, fmt.Errorf("failed to parse permissions YAML: %w", err)
	}
	if instance == nil {
		// Comments only
		return NewDocument(), nil
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(instance); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return nil, formatSchemaValidationError(validationErr)
		}
		return nil, fmt.Errorf("permissions validation failed: %w", err)
	}

	doc := NewDocument()
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}
	if doc.Groups == nil {
		doc.Groups = make(map[string][]string)
	}
	if doc.Players == nil {
		doc.Players = make(map[string]PlayerEntry)
	}
	return doc, nil
}

// formatSchemaValidationError flattens a schema error tree into one message per leaf.
func formatSchemaValidationError(err *jsonschema.ValidationError) error {
	var messages []string
	var collect func(*jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 && e.Message != "" {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}
		for _, cause := range e.Causes {
			collect(cause)
		}
	}
	collect(err)

	if len(messages) == 0 {
		return apperrors.NewValidationError("permissions", err.Error())
	}
	return apperrors.NewValidationError("permissions", strings.Join(messages, "; "), messages...)
}

// FileStore reads and writes the permissions document at a fixed path.
type FileStore struct {
	path string
}

// NewFileStore creates a store for path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the document. A missing file yields an empty document.
func (s *FileStore) Load() (*Document, error) {
	//nolint:gosec // G304: path comes from trusted configuration
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return NewDocument(), nil
	}
	if err != nil {
		return nil, apperrors.NewPermissionsFileError(s.path, err)
	}

	doc, err := ParseDocument(data)
	if err != nil {
		return nil, apperrors.NewPermissionsFileError(s.path, err)
	}
	return doc, nil
}

// Save writes the document atomically through a temporary file.
func (s *FileStore) Save(doc *Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return apperrors.NewPermissionsFileError(s.path, fmt.Errorf("failed to encode: %w", err))
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return apperrors.NewPermissionsFileError(s.path, err)
	}
	tmp, err := os.CreateTemp(dir, ".permissions-*.yaml")
	if err != nil {
		return apperrors.NewPermissionsFileError(s.path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return apperrors.NewPermissionsFileError(s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewPermissionsFileError(s.path, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return apperrors.NewPermissionsFileError(s.path, err)
	}
	return nil
}
