package schema

import (
	"math"
	"regexp"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/jsongen/pkg/validation"
)

func TestPattern_Generate(t *testing.T) {
	patterns := []string{
		`^[a-z]{3}-\d{2}$`,
		`^(foo|bar)+$`,
		`^[^a-z]$`,
		`^\w+@\w+\.com$`,
		`^(?i)abc$`,
		`^a.c?d*$`,
		`^x{2,}$`,
		`[[:upper:]][[:digit:]]`,
		`^$`,
	}
	rng := NewContext(WithSeed(17)).Rand
	for _, src := range patterns {
		t.Run(src, func(t *testing.T) {
			p, err := CompilePattern(src)
			require.NoError(t, err)
			assert.Equal(t, src, p.String())

			re := regexp.MustCompile(src)
			for range 50 {
				s := p.Generate(rng)
				assert.True(t, re.MatchString(s), "%q does not match %s", s, src)
			}
		})
	}
}

func TestString_Generate(t *testing.T) {
	tests := []struct {
		name   string
		node   *String
		wantLo int
		wantHi int
	}{
		{name: "defaults", node: &String{}, wantLo: defaultMinLength, wantHi: defaultMaxLength},
		{name: "exact length", node: &String{MinLength: intPtr(4), MaxLength: intPtr(4)}, wantLo: 4, wantHi: 4},
		{name: "min only", node: &String{MinLength: intPtr(30)}, wantLo: 30, wantHi: 45},
		{name: "max only", node: &String{MaxLength: intPtr(2)}, wantLo: 1, wantHi: 2},
		{name: "empty allowed", node: &String{MaxLength: intPtr(0)}, wantLo: 0, wantHi: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext(WithSeed(3))
			for range 100 {
				v, err := tt.node.Generate(ctx)
				require.NoError(t, err)
				n := utf8.RuneCountInString(v.(string))
				assert.GreaterOrEqual(t, n, tt.wantLo)
				assert.LessOrEqual(t, n, tt.wantHi)
			}
		})
	}
}

func TestString_FormatAndPattern(t *testing.T) {
	pattern, err := CompilePattern(`^ID-[0-9]{4}$`)
	require.NoError(t, err)

	ctx := NewContext(WithSeed(8))
	for _, format := range []string{"email", "uuid", "uri", "hostname", "ipv4", "ipv6", "date", "date-time", "time"} {
		v, err := (&String{Format: format}).Generate(ctx)
		require.NoError(t, err)
		assert.True(t, validation.ValidateFormat(format, v.(string)), "%s: %q", format, v)
	}

	// pattern wins over format
	v, err := (&String{Pattern: pattern, Format: "email"}).Generate(ctx)
	require.NoError(t, err)
	assert.Regexp(t, `^ID-[0-9]{4}$`, v)

	// unknown formats fall back to letters
	v, err = (&String{Format: "color-hex"}).Generate(ctx)
	require.NoError(t, err)
	assert.Regexp(t, `^[a-z]+$`, v)
}

func TestInteger_Generate(t *testing.T) {
	tests := []struct {
		name   string
		bounds Bounds
		check  func(t *testing.T, n int)
	}{
		{"defaults", Bounds{}, func(t *testing.T, n int) {
			assert.GreaterOrEqual(t, n, 0)
			assert.LessOrEqual(t, n, 1000)
		}},
		{"range", Bounds{Minimum: floatPtr(-5), Maximum: floatPtr(5)}, func(t *testing.T, n int) {
			assert.GreaterOrEqual(t, n, -5)
			assert.LessOrEqual(t, n, 5)
		}},
		{"max below default", Bounds{Maximum: floatPtr(-100)}, func(t *testing.T, n int) {
			assert.LessOrEqual(t, n, -100)
			assert.GreaterOrEqual(t, n, -1100)
		}},
		{"exclusive", Bounds{ExclusiveMinimum: floatPtr(1), ExclusiveMaximum: floatPtr(4)}, func(t *testing.T, n int) {
			assert.Contains(t, []int{2, 3}, n)
		}},
		{"multiple", Bounds{Minimum: floatPtr(-20), Maximum: floatPtr(20), MultipleOf: floatPtr(7)}, func(t *testing.T, n int) {
			assert.Contains(t, []int{-14, -7, 0, 7, 14}, n)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext(WithSeed(12))
			node := &Integer{Bounds: tt.bounds}
			for range 100 {
				v, err := node.Generate(ctx)
				require.NoError(t, err)
				tt.check(t, v.(int))
			}
		})
	}
}

func TestInteger_Unsatisfiable(t *testing.T) {
	tests := []Bounds{
		{Minimum: floatPtr(5), Maximum: floatPtr(1)},
		{Minimum: floatPtr(1), Maximum: floatPtr(6), MultipleOf: floatPtr(10)},
		{MultipleOf: floatPtr(1.5)},
	}
	for _, b := range tests {
		_, err := (&Integer{Bounds: b}).Generate(NewContext())
		assert.ErrorIs(t, err, ErrInvalidSchema)
	}
}

func TestNumber_Generate(t *testing.T) {
	ctx := NewContext(WithSeed(4))

	for range 200 {
		v, err := (&Number{}).Generate(ctx)
		require.NoError(t, err)
		f := v.(float64)
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1000.0)
		assert.InDelta(t, math.Round(f*100)/100, f, 1e-9, "two decimals")
	}

	exclusive := &Number{Bounds: Bounds{ExclusiveMinimum: floatPtr(0), ExclusiveMaximum: floatPtr(0.01)}}
	for range 50 {
		v, err := exclusive.Generate(ctx)
		require.NoError(t, err)
		assert.Greater(t, v.(float64), 0.0)
		assert.Less(t, v.(float64), 0.01)
	}

	multiple := &Number{Bounds: Bounds{Minimum: floatPtr(0), Maximum: floatPtr(1), MultipleOf: floatPtr(0.1)}}
	sv, err := validation.CompileSchema(map[string]any{"type": "number", "multipleOf": 0.1, "maximum": 1})
	require.NoError(t, err)
	for range 50 {
		v, err := multiple.Generate(ctx)
		require.NoError(t, err)
		assert.True(t, sv.Validate(v).Valid, "%v", v)
	}
}

func TestObject_OptionalPropertiesStopAtMaxDepth(t *testing.T) {
	o := &Object{Properties: []Property{
		{Name: "id", Node: &Integer{}, Required: true},
		{Name: "note", Node: &String{}},
	}}

	ctx := NewContext(WithSeed(1), WithMaxDepth(3))
	ctx.State.Depth = 2
	for range 50 {
		v, err := o.Generate(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"id"}, keys(v.(map[string]any)))
		ctx.State.Depth = 2
	}

	ctx.State.Depth = 0
	sawNote := false
	for range 50 {
		v, err := o.Generate(ctx)
		require.NoError(t, err)
		_, sawNote = v.(map[string]any)["note"]
		ctx.State.Depth = 0
		if sawNote {
			break
		}
	}
	assert.True(t, sawNote)
}

func TestObject_IncrementsDepth(t *testing.T) {
	probe := &depthProbe{}
	o := &Object{Properties: []Property{
		{Name: "a", Node: probe, Required: true},
		{Name: "b", Node: probe, Required: true},
	}}
	ctx := NewContext(WithSeed(1))

	_, err := o.Generate(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1}, probe.seen)
	assert.Equal(t, 1, ctx.State.Depth)
}

func TestObject_Model(t *testing.T) {
	o := &Object{Properties: []Property{
		{Name: "id", Node: &Integer{Bounds: Bounds{Minimum: floatPtr(1)}}, Required: true},
		{Name: "name", Node: &String{MaxLength: intPtr(10)}},
	}}
	m, err := o.Model(NewContext())
	require.NoError(t, err)

	assert.Equal(t, "object{id:integer,name?:string}", m.Type.String())
	require.Contains(t, m.Field.Properties, "id")
	assert.True(t, m.Field.Properties["id"].Required)
	assert.Equal(t, floatPtr(1), m.Field.Properties["id"].Min)
	assert.False(t, m.Field.Properties["name"].Required)

	res := validation.ValidateField(validation.RootPath, map[string]any{"name": "x"}, m.Field)
	assert.False(t, res.Valid)
	assert.Equal(t, "$.id", res.Errors[0].Path)
}

func TestScalars(t *testing.T) {
	ctx := NewContext(WithSeed(6))

	v, err := (&Boolean{}).Generate(ctx)
	require.NoError(t, err)
	assert.IsType(t, true, v)

	v, err = (&Null{}).Generate(ctx)
	require.NoError(t, err)
	assert.Nil(t, v)

	for range 30 {
		v, err = (&Any{}).Generate(ctx)
		require.NoError(t, err)
		assert.NotNil(t, v)
	}

	e := &Enum{Values: []any{"a", 2, nil}}
	for range 30 {
		v, err = e.Generate(ctx)
		require.NoError(t, err)
		assert.Contains(t, e.Values, v)
	}
	m, err := e.Model(ctx)
	require.NoError(t, err)
	assert.Equal(t, `enum("a",2,null)`, m.Type.String())
}

func TestBase_NullableAndProviders(t *testing.T) {
	ctx := NewContext(WithSeed(2), WithNullProbability(1))
	v, err := (&Integer{Base: Base{Nullable: true}}).Generate(ctx)
	require.NoError(t, err)
	assert.Nil(t, v)

	ctx = NewContext(WithSeed(2))
	v, err = (&Integer{Base: Base{Nullable: true}}).Generate(ctx)
	require.NoError(t, err)
	assert.NotNil(t, v, "zero null probability never yields null")

	v, err = (&String{Base: Base{Provider: FakerPrefix + "uuid"}}).Generate(ctx)
	require.NoError(t, err)
	assert.True(t, validation.ValidateFormat("uuid", v.(string)))

	_, err = (&Boolean{Base: Base{Provider: "faker.nothing"}}).Generate(ctx)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestGenerate_SeedIsReproducible(t *testing.T) {
	node, err := FromDeclaration(map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":   map[string]any{"type": "string", "format": "uuid"},
				"n":    map[string]any{"type": "number"},
				"tags": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
		},
	})
	require.NoError(t, err)

	a, err := node.Generate(NewContext(WithSeed(77)))
	require.NoError(t, err)
	b, err := node.Generate(NewContext(WithSeed(77)))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestUnion(t *testing.T) {
	u := &Union{Variants: []Node{&Boolean{}, &Integer{Bounds: Bounds{Minimum: floatPtr(1), Maximum: floatPtr(1)}}}}
	ctx := NewContext(WithSeed(10))

	kinds := map[string]bool{}
	for range 50 {
		v, err := u.Generate(ctx)
		require.NoError(t, err)
		switch v.(type) {
		case bool:
			kinds["bool"] = true
		case int:
			kinds["int"] = true
		}
	}
	assert.Len(t, kinds, 2)

	m, err := u.Model(ctx)
	require.NoError(t, err)
	assert.Equal(t, "union[boolean|integer]", m.Type.String())
	assert.True(t, validation.ValidateField(validation.RootPath, 1, m.Field).Valid)
	assert.False(t, validation.ValidateField(validation.RootPath, "x", m.Field).Valid)

	single, err := (&Union{Base: Base{Nullable: true}, Variants: []Node{&String{}}}).Model(ctx)
	require.NoError(t, err)
	assert.Equal(t, "nullable[string]", single.Type.String())
}

func TestNamespace(t *testing.T) {
	ns := NewNamespace()

	_, err := ns.Construct("tuple", TypeArgs{})
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = ns.Construct("object", TypeArgs{Required: []string{"x"}})
	assert.Error(t, err)

	_, err = ns.Construct("enum", TypeArgs{})
	assert.Error(t, err)

	ns.Set("base", 40)
	v, err := ns.Eval("base + extra", map[string]any{"extra": 2})
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	got, ok := ns.Get("base")
	assert.True(t, ok)
	assert.Equal(t, 40, got)

	// cached program is reused with new values of the same types
	v, err = ns.Eval("base + extra", map[string]any{"extra": 5})
	require.NoError(t, err)
	assert.Equal(t, 45, v)
	assert.Len(t, ns.programs, 1)
}

func TestType_JSONSchema(t *testing.T) {
	tests := []struct {
		name string
		typ  *Type
		want map[string]any
	}{
		{"any", &Type{Kind: KindAny}, map[string]any{}},
		{"nullable string", &Type{Kind: KindString, Nullable: true},
			map[string]any{"type": []any{"string", "null"}}},
		{"array of any", &Type{Kind: KindArray, Elem: &Type{Kind: KindAny}},
			map[string]any{"type": "array"}},
		{"nullable enum", &Type{Kind: KindEnum, Values: []any{"a"}, Nullable: true},
			map[string]any{"enum": []any{"a", nil}}},
		{"nullable union", &Type{Kind: KindUnion, Nullable: true, Variants: []*Type{{Kind: KindString}, {Kind: KindBoolean}}},
			map[string]any{"anyOf": []any{
				map[string]any{"anyOf": []any{map[string]any{"type": "string"}, map[string]any{"type": "boolean"}}},
				map[string]any{"type": "null"},
			}}},
		{"object", &Type{Kind: KindObject, Fields: map[string]*Type{"id": {Kind: KindInteger}}, Required: []string{"id"}},
			map[string]any{
				"type":       "object",
				"properties": map[string]any{"id": map[string]any{"type": "integer"}},
				"required":   []string{"id"},
			}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.JSONSchema())
		})
	}
}

func TestProviders(t *testing.T) {
	p := DefaultProviders()
	names := p.Names()
	assert.Contains(t, names, "faker.email")
	assert.Contains(t, names, "faker.uuid")

	var nilRegistry *Providers
	_, ok := nilRegistry.Lookup("faker.email")
	assert.False(t, ok)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
