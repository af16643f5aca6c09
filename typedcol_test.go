package typedcol

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnumSpec(t *testing.T) {
	spec, err := NewEnumSpec("novel", "essay", "poetry")
	require.NoError(t, err)
	require.Equal(t, 3, spec.Len())

	i, ok := spec.Index("essay")
	require.True(t, ok)
	require.Equal(t, 1, i)

	_, ok = spec.Index("thriller")
	require.False(t, ok)

	v, ok := spec.At(2)
	require.True(t, ok)
	require.Equal(t, "poetry", v)

	_, ok = spec.At(3)
	require.False(t, ok)

	// Values() is a copy; mutating it must not corrupt the spec.
	vals := spec.Values()
	vals[0] = "mutated"
	i, ok = spec.Index("novel")
	require.True(t, ok)
	require.Equal(t, 0, i)
}

func TestEnumSpec_Invalid(t *testing.T) {
	_, err := NewEnumSpec()
	require.ErrorIs(t, err, ErrEmptyEnumSpec)

	_, err = NewEnumSpec("a", "b", "a")
	require.ErrorIs(t, err, ErrDuplicateEnumItem)
}

func TestParseColumnType(t *testing.T) {
	for in, want := range map[string]ColumnType{
		"text": ColText, "int64": ColInt64, "int": ColInt64, "float64": ColFloat64,
		"bool": ColBool, "blob": ColBlob, "enum": ColEnum, "object": ColObject, "array": ColArray,
	} {
		got, err := ParseColumnType(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseColumnType("varchar")
	require.Error(t, err)
}

func TestSchema_Lookup(t *testing.T) {
	s := Schema{Cols: []Column{
		{Name: "title", Type: ColText},
		{Name: "tags", Type: ColArray},
	}}
	require.Equal(t, 2, s.NumCols())
	require.Equal(t, 1, s.ColIndex("tags"))
	require.Equal(t, -1, s.ColIndex("nope"))

	col, ok := s.Col("title")
	require.True(t, ok)
	require.Equal(t, ColText, col.Type)
}

const bookSchemaYAML = `
table: book
columns:
  - name: title
    type: text
  - name: style
    type: enum
    enum: [novel, essay, poetry]
  - name: tags
    type: array
    nullable: true
  - name: cover
    type: blob
    nullable: true
`

func writeSchemaFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadSchema(t *testing.T) {
	schema, err := LoadSchema(writeSchemaFile(t, bookSchemaYAML))
	require.NoError(t, err)
	require.Equal(t, 4, schema.NumCols())

	// Declaration order is preserved.
	require.Equal(t, "title", schema.Cols[0].Name)
	require.Equal(t, "style", schema.Cols[1].Name)

	style := schema.Cols[1]
	require.Equal(t, ColEnum, style.Type)
	require.NotNil(t, style.Enum)
	require.Equal(t, []string{"novel", "essay", "poetry"}, style.Enum.Values())

	tags := schema.Cols[2]
	require.Equal(t, ColArray, tags.Type)
	require.True(t, tags.Nullable)
	require.Nil(t, tags.Enum)
}

func TestLoadSchema_Invalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"no columns", "table: book\ncolumns: []\n"},
		{"unknown type", "columns:\n  - name: x\n    type: varchar\n"},
		{"enum without values", "columns:\n  - name: x\n    type: enum\n"},
		{"enum values on non-enum", "columns:\n  - name: x\n    type: text\n    enum: [a]\n"},
		{"duplicate column", "columns:\n  - name: x\n    type: text\n  - name: x\n    type: text\n"},
		{"empty name", "columns:\n  - type: text\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadSchema(writeSchemaFile(t, tc.body))
			require.Error(t, err)
		})
	}
}

func TestLoadSchema_MissingFile(t *testing.T) {
	_, err := LoadSchema(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
