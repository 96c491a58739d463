package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// Common errors for schema loading.
var (
	ErrFileNotFound       = errors.New("schema file not found")
	ErrEmptyFile          = errors.New("schema file is empty")
	ErrInvalidJSON        = errors.New("invalid JSON syntax")
	ErrInvalidYAML        = errors.New("invalid YAML syntax")
	ErrNotObject          = errors.New("schema document is not an object")
	ErrNoMatches          = errors.New("pattern matched no files")
	ErrComponentNotFound  = errors.New("OpenAPI component not found")
	ErrInvalidOpenAPIFile = errors.New("invalid OpenAPI document")
)

// Format is the encoding of a schema document.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension. Unknown extensions are
// treated as JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadFile reads a JSON or YAML schema declaration.
func LoadFile(path string) (map[string]any, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	decl, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return decl, nil
}

// Load reads a declaration from r.
func Load(r io.Reader, format Format) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	return Parse(data, format)
}

// Parse decodes a declaration. Numbers decode as float64 and YAML mappings
// are normalised to map[string]any, so both formats yield the same shape.
func Parse(data []byte, format Format) (map[string]any, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	decl, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotObject, doc)
	}
	return decl, nil
}

// LoadValue reads any JSON or YAML document, such as an instance to
// validate against a schema.
func LoadValue(path string) (any, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	v, err := decode(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func decode(data []byte, format Format) (any, error) {
	var doc any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidYAML, err)
		}
		return normalize(doc), nil
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
		}
		return doc, nil
	}
}

// normalize converts YAML values into their JSON equivalents.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = normalize(e)
		}
		return x
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[fmt.Sprint(k)] = normalize(e)
		}
		return m
	case []any:
		for i, e := range x {
			x[i] = normalize(e)
		}
		return x
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	default:
		return v
	}
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	return data, nil
}

// Glob expands each pattern into the files it matches, in order and without
// duplicates. Patterns may use ** to match across directories. A pattern
// without glob metacharacters is returned unchanged so that a missing file
// is reported by LoadFile.
func Glob(patterns ...string) ([]string, error) {
	var out []string
	for _, pattern := range patterns {
		if !hasMeta(pattern) {
			if !slices.Contains(out, pattern) {
				out = append(out, pattern)
			}
			continue
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoMatches, pattern)
		}
		slices.Sort(matches)
		for _, m := range matches {
			if !slices.Contains(out, m) {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// LoadOpenAPIComponent loads the schema named name from the
// components.schemas section of an OpenAPI 3 document. The document's
// components are attached to the returned declaration so that
// #/components/schemas/... references resolve against it.
func LoadOpenAPIComponent(path, name string) (map[string]any, error) {
	if _, err := readFile(path); err != nil {
		return nil, err
	}

	l := openapi3.NewLoader()
	l.IsExternalRefsAllowed = true
	doc, err := l.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidOpenAPIFile, path, err)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidOpenAPIFile, path, err)
	}
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidOpenAPIFile, path, err)
	}

	components, _ := root["components"].(map[string]any)
	schemas, _ := components["schemas"].(map[string]any)
	component, ok := schemas[name].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrComponentNotFound, name, path)
	}

	decl := make(map[string]any, len(component)+1)
	for k, v := range component {
		decl[k] = v
	}
	decl["components"] = components
	return decl, nil
}
