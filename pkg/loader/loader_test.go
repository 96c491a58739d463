package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/jsongen/pkg/schema"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile_JSONAndYAMLAgree(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "tags.json", `{
		"type": "array",
		"items": {"type": "string"},
		"minItems": 1,
		"maxItems": 3,
		"uniqueItems": true
	}`)
	yamlPath := writeFile(t, dir, "tags.yaml", `
type: array
items:
  type: string
minItems: 1
maxItems: 3
uniqueItems: true
`)

	fromJSON, err := LoadFile(jsonPath)
	require.NoError(t, err)
	fromYAML, err := LoadFile(yamlPath)
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromYAML)
	assert.Equal(t, float64(3), fromYAML["maxItems"])
}

func TestParse_NormalizesYAMLKeys(t *testing.T) {
	decl, err := Parse([]byte("enum:\n  - {1: one}\n"), FormatYAML)
	require.NoError(t, err)

	enum := decl["enum"].([]any)
	assert.Equal(t, map[string]any{"1": "one"}, enum[0])
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"missing", filepath.Join(dir, "nope.json"), ErrFileNotFound},
		{"empty", writeFile(t, dir, "empty.json", ""), ErrEmptyFile},
		{"bad json", writeFile(t, dir, "bad.json", `{"type": `), ErrInvalidJSON},
		{"bad yaml", writeFile(t, dir, "bad.yaml", "type: [array\n"), ErrInvalidYAML},
		{"not an object", writeFile(t, dir, "list.json", `[1, 2]`), ErrNotObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(tt.path)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_Reader(t *testing.T) {
	decl, err := Load(strings.NewReader(`{"type": "integer"}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "integer", decl["type"])

	_, err = Load(strings.NewReader(""), FormatJSON)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatOf("a.yaml"))
	assert.Equal(t, FormatYAML, FormatOf("a.YML"))
	assert.Equal(t, FormatJSON, FormatOf("a.json"))
	assert.Equal(t, FormatJSON, FormatOf("schema"))
}

func TestGlob(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "schemas/a.json", `{}`)
	b := writeFile(t, dir, "schemas/nested/b.json", `{}`)
	writeFile(t, dir, "schemas/notes.txt", "")

	t.Run("recursive", func(t *testing.T) {
		got, err := Glob(filepath.Join(dir, "schemas", "**", "*.json"))
		require.NoError(t, err)
		assert.Equal(t, []string{a, b}, got)
	})

	t.Run("deduplicates", func(t *testing.T) {
		got, err := Glob(a, filepath.Join(dir, "schemas", "*.json"))
		require.NoError(t, err)
		assert.Equal(t, []string{a}, got)
	})

	t.Run("plain path passes through", func(t *testing.T) {
		missing := filepath.Join(dir, "missing.json")
		got, err := Glob(missing)
		require.NoError(t, err)
		assert.Equal(t, []string{missing}, got)
	})

	t.Run("no matches", func(t *testing.T) {
		_, err := Glob(filepath.Join(dir, "*.yaml"))
		assert.ErrorIs(t, err, ErrNoMatches)
	})
}

const petstore = `openapi: 3.0.3
info:
  title: Pets
  version: "1.0"
paths: {}
components:
  schemas:
    Tag:
      type: string
      enum: [cat, dog, bird]
    Pet:
      type: object
      required: [id, tags]
      properties:
        id:
          type: integer
          minimum: 1
        name:
          type: string
          nullable: true
        tags:
          type: array
          items:
            $ref: '#/components/schemas/Tag'
          minItems: 1
          maxItems: 3
          uniqueItems: true
`

func TestLoadOpenAPIComponent(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pets.yaml", petstore)

	decl, err := LoadOpenAPIComponent(path, "Pet")
	require.NoError(t, err)
	assert.Equal(t, "object", decl["type"])
	assert.Contains(t, decl, "components")

	node, err := schema.FromDeclaration(decl)
	require.NoError(t, err)

	ctx := schema.NewContext(schema.WithSeed(3))
	for range 20 {
		v, err := node.Generate(ctx)
		require.NoError(t, err)

		pet := v.(map[string]any)
		tags := pet["tags"].([]any)
		assert.NotEmpty(t, tags)
		assert.LessOrEqual(t, len(tags), 3)
		for _, tag := range tags {
			assert.Contains(t, []any{"cat", "dog", "bird"}, tag)
		}
	}
}

func TestLoadOpenAPIComponent_Errors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pets.yaml", petstore)

	_, err := LoadOpenAPIComponent(path, "Owner")
	assert.ErrorIs(t, err, ErrComponentNotFound)

	_, err = LoadOpenAPIComponent(filepath.Join(dir, "none.yaml"), "Pet")
	assert.ErrorIs(t, err, ErrFileNotFound)

	bad := writeFile(t, dir, "bad.yaml", "openapi: [\n")
	_, err = LoadOpenAPIComponent(bad, "Pet")
	assert.ErrorIs(t, err, ErrInvalidOpenAPIFile)
}

func TestLoadValue(t *testing.T) {
	dir := t.TempDir()

	v, err := LoadValue(writeFile(t, dir, "list.json", `[1, "two", null]`))
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), "two", nil}, v)

	v, err = LoadValue(writeFile(t, dir, "scalar.yaml", "42\n"))
	require.NoError(t, err)
	assert.Equal(t, float64(42), v)
}
