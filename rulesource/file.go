package rulesource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/code-dispenser/validated/rules"
)

// ruleFile is the on-disk document shape shared by all formats.
type ruleFile struct {
	Rules []rules.RuleConfig `json:"rules" yaml:"rules" toml:"rules"`
}

// LoadFile reads a rule-row document, dispatching the decoder by file
// extension: .json, .yaml, .yml or .toml.
func LoadFile(path string) ([]rules.RuleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rulesource: read %s: %w", path, err)
	}

	var doc ruleFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &doc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".toml":
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("rulesource: unsupported rule file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("rulesource: decode %s: %w", path, err)
	}
	return doc.Rules, nil
}

// File is a source that re-reads its rule file on every snapshot, so edits
// become visible without a restart. Wrap it in Cached to bound the I/O.
type File struct {
	path string
}

// NewFile creates a file-backed source.
func NewFile(path string) *File { return &File{path: path} }

// Snapshot loads the file's current rows.
func (f *File) Snapshot(_ context.Context) ([]rules.RuleConfig, error) {
	return LoadFile(f.path)
}

var _ rules.Source = (*File)(nil)
