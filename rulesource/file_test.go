package rulesource_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-dispenser/validated/rules"
	"github.com/code-dispenser/validated/rulesource"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeTemp(t, "rules.json", `{
  "rules": [
    {"type_name": "Person", "member": "Name", "rule_kind": "string_length", "min": "2", "max": "50"},
    {"type_name": "Person", "member": "Age", "rule_kind": "number_range", "min": "0", "max": "130",
     "tenant": "TenantOne", "version": {"major": 1, "minor": 2}}
  ]
}`)

	rows, err := rulesource.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Name", rows[0].Member)
	assert.Equal(t, rules.KindStringLength, rows[0].RuleKind)
	require.NotNil(t, rows[1].Version)
	assert.Equal(t, 1, rows[1].Version.Major)
	assert.Equal(t, 2, rows[1].Version.Minor)
	assert.Equal(t, "TenantOne", rows[1].Tenant)
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeTemp(t, "rules.yaml", `rules:
  - type_name: Person
    member: Email
    rule_kind: pattern
    pattern: "^\\S+@\\S+$"
    culture: de-DE
`)

	rows, err := rulesource.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, rules.KindPattern, rows[0].RuleKind)
	assert.Equal(t, `^\S+@\S+$`, rows[0].Pattern)
	assert.Equal(t, "de-DE", rows[0].Culture)
}

func TestLoadFile_TOML(t *testing.T) {
	path := writeTemp(t, "rules.toml", `[[rules]]
type_name = "Person"
member = "Site"
rule_kind = "url"

[rules.extra]
message = "enter a full web address"
`)

	rows, err := rulesource.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, rules.KindURL, rows[0].RuleKind)
	assert.Equal(t, "enter a full web address", rows[0].Extra["message"])
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	path := writeTemp(t, "rules.ini", "[rules]")
	_, err := rulesource.LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported rule file extension")
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := rulesource.LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestLoadFile_MalformedDocument(t *testing.T) {
	path := writeTemp(t, "rules.json", `{"rules": [`)
	_, err := rulesource.LoadFile(path)
	require.Error(t, err)
}

func TestFile_SnapshotSeesEdits(t *testing.T) {
	path := writeTemp(t, "rules.json", `{"rules": [{"type_name": "T", "member": "A", "rule_kind": "url"}]}`)
	src := rulesource.NewFile(path)

	rows, err := src.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NoError(t, os.WriteFile(path, []byte(`{"rules": [
		{"type_name": "T", "member": "A", "rule_kind": "url"},
		{"type_name": "T", "member": "B", "rule_kind": "url"}
	]}`), 0o600))

	rows, err = src.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestMemory_ReplaceSwapsSnapshot(t *testing.T) {
	m := rulesource.NewMemory(rules.RuleConfig{TypeName: "T", Member: "A", RuleKind: rules.KindURL})

	rows, err := m.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// Mutating the returned copy must not leak into the source.
	rows[0].Member = "mutated"
	again, _ := m.Snapshot(context.Background())
	assert.Equal(t, "A", again[0].Member)

	m.Replace()
	empty, err := m.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, empty)
}
