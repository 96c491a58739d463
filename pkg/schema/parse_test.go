package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/jsongen/pkg/validation"
)

func decodeJSON(t *testing.T, src string) map[string]any {
	t.Helper()
	var decl map[string]any
	require.NoError(t, json.Unmarshal([]byte(src), &decl))
	return decl
}

func TestFromDeclaration_Array(t *testing.T) {
	node, err := FromDeclaration(decodeJSON(t, `{
		"type": "array",
		"items": {"type": "string"},
		"minItems": 2,
		"maxItems": 4,
		"uniqueItems": true
	}`))
	require.NoError(t, err)

	a, ok := node.(*Array)
	require.True(t, ok)
	assert.IsType(t, &String{}, a.Items)
	assert.Equal(t, intPtr(2), a.MinItems)
	assert.Equal(t, intPtr(4), a.MaxItems)
	assert.True(t, a.UniqueItems)
	assert.Nil(t, a.Fixed)
}

func TestFromDeclaration_MinItemsTriState(t *testing.T) {
	unset, err := FromDeclaration(decodeJSON(t, `{"type": "array", "items": {}}`))
	require.NoError(t, err)
	assert.Nil(t, unset.(*Array).MinItems)

	zero, err := FromDeclaration(decodeJSON(t, `{"type": "array", "items": {}, "minItems": 0}`))
	require.NoError(t, err)
	assert.Equal(t, intPtr(0), zero.(*Array).MinItems)
}

func TestFromDeclaration_Fixed(t *testing.T) {
	tests := []struct {
		name      string
		fixed     any
		wantCount *int
		wantExpr  string
		wantErr   error
	}{
		{name: "integer", fixed: 3, wantCount: intPtr(3)},
		{name: "json number", fixed: float64(3), wantCount: intPtr(3)},
		{name: "expression", fixed: "between(1, 3)", wantExpr: "between(1, 3)"},
		{name: "fractional", fixed: 2.5, wantErr: ErrInvalidSchema},
		{name: "boolean", fixed: true, wantErr: ErrInvalidSchema},
		{name: "negative", fixed: -1, wantErr: ErrInvalidFixed},
		{name: "blank expression", fixed: "  ", wantErr: ErrInvalidFixed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := FromDeclaration(map[string]any{
				"type":   "array",
				"items":  map[string]any{"type": "integer"},
				"$fixed": tt.fixed,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			fixed := node.(*Array).Fixed
			require.NotNil(t, fixed)
			assert.Equal(t, tt.wantCount, fixed.Count)
			assert.Equal(t, tt.wantExpr, fixed.Expr)
		})
	}
}

func TestFromDeclaration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		decl    string
		wantErr error
	}{
		{"unknown type", `{"type": "date"}`, ErrUnknownType},
		{"bad type value", `{"type": 4}`, ErrInvalidSchema},
		{"min above max", `{"type": "array", "minItems": 3, "maxItems": 1}`, ErrInvalidSchema},
		{"negative maxItems", `{"type": "array", "maxItems": -1}`, ErrInvalidSchema},
		{"uniqueItems not bool", `{"type": "array", "uniqueItems": "yes"}`, ErrInvalidSchema},
		{"bad pattern", `{"type": "string", "pattern": "(a"}`, ErrInvalidSchema},
		{"empty enum", `{"enum": []}`, ErrInvalidSchema},
		{"false schema", `{"type": "array", "items": false}`, ErrInvalidSchema},
		{"non-positive multipleOf", `{"type": "number", "multipleOf": 0}`, ErrInvalidSchema},
		{"bad provider", `{"type": "string", "$provider": 7}`, ErrInvalidSchema},
		{"missing ref", `{"$ref": "#/$defs/missing"}`, ErrUnresolvedRef},
		{"remote ref", `{"$ref": "other.json#/x"}`, ErrUnresolvedRef},
		{"alias cycle", `{"$defs": {"a": {"$ref": "#/$defs/b"}, "b": {"$ref": "#/$defs/a"}}, "$ref": "#/$defs/a"}`, ErrUnresolvedRef},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromDeclaration(decodeJSON(t, tt.decl))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFromDeclaration_TypeInference(t *testing.T) {
	tests := []struct {
		decl string
		want Kind
	}{
		{`{}`, KindAny},
		{`{"properties": {"a": {}}}`, KindObject},
		{`{"items": {"type": "string"}}`, KindArray},
		{`{"const": 5}`, KindEnum},
		{`{"enum": ["a", "b"]}`, KindEnum},
		{`{"anyOf": [{"type": "string"}, {"type": "integer"}]}`, KindUnion},
		{`{"oneOf": [{"type": "string"}, {"type": "integer"}]}`, KindUnion},
		{`{"type": ["null", "integer"]}`, KindInteger},
		{`{"type": ["null"]}`, KindNull},
	}
	for _, tt := range tests {
		t.Run(tt.decl, func(t *testing.T) {
			node, err := FromDeclaration(decodeJSON(t, tt.decl))
			require.NoError(t, err)
			assert.Equal(t, tt.want, node.Kind())
		})
	}
}

func TestFromDeclaration_Nullable(t *testing.T) {
	for _, src := range []string{
		`{"type": ["string", "null"]}`,
		`{"type": "string", "nullable": true}`,
	} {
		node, err := FromDeclaration(decodeJSON(t, src))
		require.NoError(t, err)
		assert.True(t, node.(*String).Nullable, src)

		m, err := node.Model(NewContext())
		require.NoError(t, err)
		assert.Equal(t, "nullable[string]", m.Type.String())
	}
}

func TestFromDeclaration_ObjectProperties(t *testing.T) {
	node, err := FromDeclaration(decodeJSON(t, `{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"age": {"type": "integer", "minimum": 0}
		},
		"required": ["name", "id"]
	}`))
	require.NoError(t, err)

	o := node.(*Object)
	names := []string{}
	for _, p := range o.Properties {
		names = append(names, p.Name)
	}
	// sorted, with undeclared required names included
	assert.Equal(t, []string{"age", "id", "name"}, names)
	assert.False(t, o.Properties[0].Required)
	assert.True(t, o.Properties[1].Required)
	assert.IsType(t, &Any{}, o.Properties[1].Node)
	assert.True(t, o.Properties[2].Required)
}

func TestFromDeclaration_AllOfMerge(t *testing.T) {
	node, err := FromDeclaration(decodeJSON(t, `{
		"$defs": {
			"named": {
				"type": "object",
				"properties": {"name": {"type": "string"}},
				"required": ["name"]
			}
		},
		"allOf": [
			{"$ref": "#/$defs/named"},
			{"properties": {"id": {"type": "integer"}}, "required": ["id", "name"]}
		]
	}`))
	require.NoError(t, err)

	m, err := node.Model(NewContext())
	require.NoError(t, err)
	assert.Equal(t, "object{id:integer,name:string}", m.Type.String())
	assert.Equal(t, []string{"id", "name"}, m.Type.Required)
}

func TestFromDeclaration_RecursiveRef(t *testing.T) {
	node, err := FromDeclaration(decodeJSON(t, `{
		"$defs": {
			"tree": {
				"type": "object",
				"properties": {
					"label": {"type": "string"},
					"children": {"type": "array", "items": {"$ref": "#/$defs/tree"}, "maxItems": 2}
				},
				"required": ["label"]
			}
		},
		"$ref": "#/$defs/tree"
	}`))
	require.NoError(t, err)
	assert.Equal(t, KindObject, node.Kind())

	m, err := node.Model(NewContext())
	require.NoError(t, err)
	assert.Equal(t, "object{children?:array[any],label:string}", m.Type.String())

	for seed := range uint64(30) {
		v, err := node.Generate(NewContext(WithSeed(seed)))
		require.NoError(t, err)
		assert.Contains(t, v, "label")
	}
}

func TestFromDeclaration_RequiredRecursionHitsLimit(t *testing.T) {
	node, err := FromDeclaration(decodeJSON(t, `{
		"$defs": {
			"loop": {
				"type": "object",
				"properties": {"next": {"$ref": "#/$defs/loop"}},
				"required": ["next"]
			}
		},
		"$ref": "#/$defs/loop"
	}`))
	require.NoError(t, err)

	_, err = node.Generate(NewContext(WithSeed(1), WithRecursionLimit(5)))
	assert.ErrorIs(t, err, ErrRecursionLimit)
}

func TestFromDeclaration_RefIntoList(t *testing.T) {
	node, err := FromDeclaration(decodeJSON(t, `{
		"$defs": {"choices": [{"type": "boolean"}, {"type": "null"}]},
		"type": "array",
		"items": {"$ref": "#/$defs/choices/0"},
		"$fixed": 2
	}`))
	require.NoError(t, err)
	assert.Equal(t, KindBoolean, node.(*Array).Items.Kind())

	v, err := node.Generate(NewContext(WithSeed(1)))
	require.NoError(t, err)
	for _, item := range v.([]any) {
		assert.IsType(t, true, item)
	}
}

func TestFromDeclaration_YAMLIntegers(t *testing.T) {
	var decl map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(`
type: array
minItems: 2
maxItems: 2
$fixed: 4
items:
  type: integer
  minimum: 10
  maximum: 12
`), &decl))

	node, err := FromDeclaration(decl)
	require.NoError(t, err)

	v, err := node.Generate(NewContext(WithSeed(4)))
	require.NoError(t, err)
	require.Len(t, v, 4)
	for _, item := range v.([]any) {
		assert.GreaterOrEqual(t, item, 10)
		assert.LessOrEqual(t, item, 12)
	}
}

func TestFromDeclaration_ExclusiveBoundsDraft4(t *testing.T) {
	node, err := FromDeclaration(decodeJSON(t, `{
		"type": "integer",
		"minimum": 1,
		"exclusiveMinimum": true,
		"maximum": 3,
		"exclusiveMaximum": true
	}`))
	require.NoError(t, err)

	i := node.(*Integer)
	assert.Nil(t, i.Minimum)
	assert.Nil(t, i.Maximum)
	assert.Equal(t, floatPtr(1), i.ExclusiveMinimum)
	assert.Equal(t, floatPtr(3), i.ExclusiveMaximum)

	for range 20 {
		v, err := node.Generate(NewContext())
		require.NoError(t, err)
		assert.Equal(t, 2, v)
	}
}

func TestFromDeclaration_RoundTripAgainstDeclaration(t *testing.T) {
	src := `{
		"type": "object",
		"properties": {
			"id": {"type": "string", "format": "uuid"},
			"code": {"type": "string", "pattern": "^[A-Z]{3}-[0-9]{2,4}$"},
			"price": {"type": "number", "minimum": 1, "maximum": 5, "multipleOf": 0.25},
			"qty": {"type": "integer", "exclusiveMinimum": 0, "maximum": 9},
			"status": {"enum": ["open", "closed"]},
			"tags": {
				"type": "array",
				"items": {"type": "string", "minLength": 3, "maxLength": 5},
				"uniqueItems": true,
				"$fixed": "between(1, 3)"
			},
			"owner": {
				"type": ["object", "null"],
				"properties": {"email": {"type": "string", "$provider": "faker.email"}},
				"required": ["email"]
			}
		},
		"required": ["id", "code", "price", "qty", "status", "tags", "owner"]
	}`
	decl := decodeJSON(t, src)

	node, err := FromDeclaration(decl)
	require.NoError(t, err)

	original, err := validation.CompileSchema(decl)
	require.NoError(t, err)

	ctx := NewContext(WithSeed(99), WithNullProbability(0.3))
	m, err := node.Model(ctx)
	require.NoError(t, err)
	modeled, err := validation.CompileSchema(m.Type.JSONSchema())
	require.NoError(t, err)

	for range 100 {
		v, err := node.Generate(ctx)
		require.NoError(t, err)

		res := original.Validate(v)
		assert.True(t, res.Valid, "%v: %v", v, res.Errors)
		res = modeled.Validate(v)
		assert.True(t, res.Valid, "%v: %v", v, res.Errors)
		res = validation.ValidateField(validation.RootPath, v, m.Field)
		assert.True(t, res.Valid, "%v: %v", v, res.Errors)
	}
}
