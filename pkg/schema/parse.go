package schema

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
)

// Custom keywords understood by the parser in addition to JSON Schema.
const (
	KeywordFixed    = "$fixed"
	KeywordProvider = "$provider"
)

// parser turns a decoded declaration into a node graph. References are
// shared by pointer, so every $ref to the same location yields one *Ref.
type parser struct {
	root    map[string]any
	refs    map[string]*Ref
	pending []*Ref
}

// FromDeclaration builds the node graph for a decoded JSON or YAML schema.
// Every $ref is resolved before it returns, so unresolvable references are
// reported here rather than during generation.
func FromDeclaration(decl map[string]any) (Node, error) {
	p := &parser{root: decl, refs: make(map[string]*Ref)}

	n, err := p.parse(decl, "#")
	if err != nil {
		return nil, err
	}

	// resolving a ref may parse new refs, so pending grows while iterating
	for i := 0; i < len(p.pending); i++ {
		if _, err := p.pending[i].Target(); err != nil {
			return nil, err
		}
	}
	for _, r := range p.pending {
		if err := checkAliasCycle(r); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// checkAliasCycle rejects references that only ever point at other
// references and come back around, such as A: {$ref: B}, B: {$ref: A}.
func checkAliasCycle(r *Ref) error {
	seen := map[*Ref]bool{r: true}
	for {
		next, ok := r.target.(*Ref)
		if !ok {
			return nil
		}
		if seen[next] {
			return fmt.Errorf("%w: %s only refers to itself", ErrUnresolvedRef, r.Pointer)
		}
		seen[next] = true
		r = next
	}
}

func (p *parser) parse(v any, path string) (Node, error) {
	switch decl := v.(type) {
	case bool:
		if decl {
			return &Any{}, nil
		}
		return nil, fmt.Errorf("%w: %s: false schema admits no value", ErrInvalidSchema, path)
	case map[string]any:
		return p.parseMap(decl, path)
	default:
		return nil, fmt.Errorf("%w: %s: schema must be an object, got %T", ErrInvalidSchema, path, v)
	}
}

func (p *parser) parseMap(decl map[string]any, path string) (Node, error) {
	if ref, ok := decl["$ref"]; ok {
		pointer, ok := ref.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s: $ref must be a string", ErrInvalidSchema, path)
		}
		return p.ref(pointer), nil
	}

	if _, ok := decl["allOf"]; ok {
		merged, err := p.mergeAllOf(decl, path)
		if err != nil {
			return nil, err
		}
		return p.parseMap(merged, path)
	}

	base, err := parseBase(decl, path)
	if err != nil {
		return nil, err
	}

	if c, ok := decl["const"]; ok {
		return &Enum{Base: base, Values: []any{c}}, nil
	}
	if values, ok := decl["enum"]; ok {
		list, ok := values.([]any)
		if !ok || len(list) == 0 {
			return nil, fmt.Errorf("%w: %s: enum must be a non-empty list", ErrInvalidSchema, path)
		}
		return &Enum{Base: base, Values: list}, nil
	}

	for _, key := range []string{"anyOf", "oneOf"} {
		if branches, ok := decl[key]; ok {
			return p.parseUnion(base, branches, path+"/"+key)
		}
	}

	typ, err := parseType(decl, &base, path)
	if err != nil {
		return nil, err
	}

	switch typ {
	case KindArray:
		return p.parseArray(base, decl, path)
	case KindObject:
		return p.parseObject(base, decl, path)
	case KindString:
		return parseString(base, decl, path)
	case KindInteger:
		b, err := parseBounds(decl, path)
		if err != nil {
			return nil, err
		}
		return &Integer{Base: base, Bounds: b}, nil
	case KindNumber:
		b, err := parseBounds(decl, path)
		if err != nil {
			return nil, err
		}
		return &Number{Base: base, Bounds: b}, nil
	case KindBoolean:
		return &Boolean{Base: base}, nil
	case KindNull:
		return &Null{Base: base}, nil
	default:
		return &Any{Base: base}, nil
	}
}

// parseType resolves the type keyword. A type list containing "null" marks
// the node nullable and uses the first other entry. Without a type the kind
// is inferred from the keywords present.
func parseType(decl map[string]any, base *Base, path string) (Kind, error) {
	var name string
	switch t := decl["type"].(type) {
	case nil:
		switch {
		case decl["properties"] != nil:
			return KindObject, nil
		case decl["items"] != nil:
			return KindArray, nil
		}
		return KindAny, nil
	case string:
		name = t
	case []any:
		for _, entry := range t {
			s, ok := entry.(string)
			if !ok {
				return "", fmt.Errorf("%w: %s: type list entries must be strings", ErrInvalidSchema, path)
			}
			if s == string(KindNull) {
				base.Nullable = true
				continue
			}
			if name == "" {
				name = s
			}
		}
		if name == "" {
			name = string(KindNull)
			base.Nullable = false
		}
	default:
		return "", fmt.Errorf("%w: %s: type must be a string or list", ErrInvalidSchema, path)
	}

	switch k := Kind(name); k {
	case KindString, KindInteger, KindNumber, KindBoolean, KindNull, KindArray, KindObject:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %s: %q", ErrUnknownType, path, name)
	}
}

func parseBase(decl map[string]any, path string) (Base, error) {
	var b Base
	b.Title, _ = decl["title"].(string)
	b.Description, _ = decl["description"].(string)
	b.Default = decl["default"]
	b.Examples, _ = decl["examples"].([]any)

	if v, ok := decl[KeywordProvider]; ok {
		name, ok := v.(string)
		if !ok || name == "" {
			return b, fmt.Errorf("%w: %s: %s must be a provider name", ErrInvalidSchema, path, KeywordProvider)
		}
		b.Provider = name
	}

	// OpenAPI 3.0 spelling
	if v, ok := decl["nullable"].(bool); ok {
		b.Nullable = v
	}
	return b, nil
}

func (p *parser) parseUnion(base Base, branches any, path string) (Node, error) {
	list, ok := branches.([]any)
	if !ok || len(list) == 0 {
		return nil, fmt.Errorf("%w: %s: must be a non-empty list", ErrInvalidSchema, path)
	}
	u := &Union{Base: base, Variants: make([]Node, 0, len(list))}
	for i, branch := range list {
		n, err := p.parse(branch, path+"/"+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		u.Variants = append(u.Variants, n)
	}
	return u, nil
}

func (p *parser) parseArray(base Base, decl map[string]any, path string) (Node, error) {
	a := &Array{Base: base}

	switch items := decl["items"].(type) {
	case nil:
	case []any:
		// tuple form; every position draws from the same set of schemas
		n, err := p.parseUnion(Base{}, items, path+"/items")
		if err != nil {
			return nil, err
		}
		a.Items = n
	default:
		n, err := p.parse(items, path+"/items")
		if err != nil {
			return nil, err
		}
		a.Items = n
	}

	if contains, ok := decl["contains"]; ok {
		n, err := p.parse(contains, path+"/contains")
		if err != nil {
			return nil, err
		}
		a.Contains = n
	}

	var err error
	if a.MinItems, err = optCount(decl, "minItems", path); err != nil {
		return nil, err
	}
	if a.MaxItems, err = optCount(decl, "maxItems", path); err != nil {
		return nil, err
	}
	if a.MinItems != nil && a.MaxItems != nil && *a.MinItems > *a.MaxItems {
		return nil, fmt.Errorf("%w: %s: minItems %d exceeds maxItems %d",
			ErrInvalidSchema, path, *a.MinItems, *a.MaxItems)
	}

	if v, ok := decl["uniqueItems"]; ok {
		unique, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %s: uniqueItems must be a boolean", ErrInvalidSchema, path)
		}
		a.UniqueItems = unique
	}

	if v, ok := decl[KeywordFixed]; ok {
		fixed, err := parseFixed(v, path)
		if err != nil {
			return nil, err
		}
		a.Fixed = fixed
	}
	return a, nil
}

func parseFixed(v any, path string) (*Fixed, error) {
	if s, ok := v.(string); ok {
		if strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("%w: %s: empty expression", ErrInvalidFixed, path)
		}
		return FixedExpr(s), nil
	}
	n, ok := intValue(v)
	if !ok {
		return nil, fmt.Errorf("%w: %s: %s must be an integer or expression, got %T",
			ErrInvalidSchema, path, KeywordFixed, v)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: %s: negative count %d", ErrInvalidFixed, path, n)
	}
	return FixedCount(n), nil
}

func (p *parser) parseObject(base Base, decl map[string]any, path string) (Node, error) {
	props := map[string]any{}
	if v, ok := decl["properties"]; ok {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s: properties must be an object", ErrInvalidSchema, path)
		}
		props = m
	}

	required := map[string]bool{}
	if v, ok := decl["required"]; ok {
		list, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s: required must be a list", ErrInvalidSchema, path)
		}
		for _, entry := range list {
			name, ok := entry.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s: required entries must be strings", ErrInvalidSchema, path)
			}
			required[name] = true
		}
	}

	names := slices.Sorted(maps.Keys(props))
	for name := range required {
		if _, ok := props[name]; !ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	o := &Object{Base: base, Properties: make([]Property, 0, len(names))}
	for _, name := range names {
		var n Node = &Any{}
		if sub, ok := props[name]; ok {
			var err error
			if n, err = p.parse(sub, path+"/properties/"+escapePointer(name)); err != nil {
				return nil, err
			}
		}
		o.Properties = append(o.Properties, Property{Name: name, Node: n, Required: required[name]})
	}
	return o, nil
}

func parseString(base Base, decl map[string]any, path string) (Node, error) {
	s := &String{Base: base}

	var err error
	if s.MinLength, err = optCount(decl, "minLength", path); err != nil {
		return nil, err
	}
	if s.MaxLength, err = optCount(decl, "maxLength", path); err != nil {
		return nil, err
	}
	if s.MinLength != nil && s.MaxLength != nil && *s.MinLength > *s.MaxLength {
		return nil, fmt.Errorf("%w: %s: minLength %d exceeds maxLength %d",
			ErrInvalidSchema, path, *s.MinLength, *s.MaxLength)
	}

	if v, ok := decl["pattern"]; ok {
		src, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s: pattern must be a string", ErrInvalidSchema, path)
		}
		if s.Pattern, err = CompilePattern(src); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	s.Format, _ = decl["format"].(string)
	return s, nil
}

func parseBounds(decl map[string]any, path string) (Bounds, error) {
	var b Bounds
	for key, dst := range map[string]**float64{
		"minimum":    &b.Minimum,
		"maximum":    &b.Maximum,
		"multipleOf": &b.MultipleOf,
	} {
		v, ok := decl[key]
		if !ok {
			continue
		}
		f, ok := floatValue(v)
		if !ok {
			return b, fmt.Errorf("%w: %s: %s must be a number", ErrInvalidSchema, path, key)
		}
		*dst = &f
	}

	// draft 4 uses booleans that turn minimum/maximum exclusive
	for key, pair := range map[string][2]**float64{
		"exclusiveMinimum": {&b.ExclusiveMinimum, &b.Minimum},
		"exclusiveMaximum": {&b.ExclusiveMaximum, &b.Maximum},
	} {
		switch v := decl[key].(type) {
		case nil:
		case bool:
			if v && *pair[1] != nil {
				*pair[0], *pair[1] = *pair[1], nil
			}
		default:
			f, ok := floatValue(v)
			if !ok {
				return b, fmt.Errorf("%w: %s: %s must be a number", ErrInvalidSchema, path, key)
			}
			*pair[0] = &f
		}
	}

	if b.MultipleOf != nil && *b.MultipleOf <= 0 {
		return b, fmt.Errorf("%w: %s: multipleOf must be positive", ErrInvalidSchema, path)
	}
	return b, nil
}

// mergeAllOf folds allOf branches into a single declaration. Properties and
// required lists are combined; for other keywords the first occurrence wins.
func (p *parser) mergeAllOf(decl map[string]any, path string) (map[string]any, error) {
	branches, ok := decl["allOf"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: allOf must be a list", ErrInvalidSchema, path)
	}

	merged := make(map[string]any, len(decl))
	props := make(map[string]any)
	var required []any

	absorb := func(src map[string]any) {
		for k, v := range src {
			switch k {
			case "allOf":
			case "properties":
				if m, ok := v.(map[string]any); ok {
					maps.Copy(props, m)
				}
			case "required":
				if list, ok := v.([]any); ok {
					required = append(required, list...)
				}
			default:
				if _, exists := merged[k]; !exists {
					merged[k] = v
				}
			}
		}
	}

	absorb(decl)
	for i, branch := range branches {
		branchPath := path + "/allOf/" + strconv.Itoa(i)
		m, err := p.declaration(branch, branchPath)
		if err != nil {
			return nil, err
		}
		if _, nested := m["allOf"]; nested {
			if m, err = p.mergeAllOf(m, branchPath); err != nil {
				return nil, err
			}
		}
		absorb(m)
	}

	if len(props) > 0 {
		merged["properties"] = props
		if _, ok := merged["type"]; !ok {
			merged["type"] = string(KindObject)
		}
	}
	if len(required) > 0 {
		seen := make(map[any]bool, len(required))
		unique := required[:0]
		for _, r := range required {
			if !seen[r] {
				seen[r] = true
				unique = append(unique, r)
			}
		}
		merged["required"] = unique
	}
	return merged, nil
}

// declaration returns the raw map of an allOf branch, following $ref chains.
func (p *parser) declaration(v any, path string) (map[string]any, error) {
	seen := map[string]bool{}
	for {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s: allOf branch must be an object", ErrInvalidSchema, path)
		}
		pointer, ok := m["$ref"].(string)
		if !ok {
			return m, nil
		}
		if seen[pointer] {
			return nil, fmt.Errorf("%w: %s: %s only refers to itself", ErrUnresolvedRef, path, pointer)
		}
		seen[pointer] = true

		target, err := p.lookup(pointer)
		if err != nil {
			return nil, err
		}
		v = target
	}
}

// ref returns the shared reference node for pointer.
func (p *parser) ref(pointer string) *Ref {
	if r, ok := p.refs[pointer]; ok {
		return r
	}
	r := NewRef(pointer, func() (Node, error) {
		target, err := p.lookup(pointer)
		if err != nil {
			return nil, err
		}
		return p.parse(target, pointer)
	})
	p.refs[pointer] = r
	p.pending = append(p.pending, r)
	return r
}

// lookup resolves a same-document JSON pointer such as #/$defs/user.
func (p *parser) lookup(pointer string) (any, error) {
	fragment, ok := strings.CutPrefix(pointer, "#")
	if !ok {
		return nil, fmt.Errorf("%w: %s: only same-document references are supported", ErrUnresolvedRef, pointer)
	}
	fragment, err := url.PathUnescape(fragment)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnresolvedRef, pointer, err)
	}
	if fragment == "" {
		return p.root, nil
	}

	var cur any = p.root
	for _, seg := range strings.Split(strings.TrimPrefix(fragment, "/"), "/") {
		seg = unescapePointer(seg)

		var x jp.Expr
		if _, isList := cur.([]any); isList {
			i, err := strconv.Atoi(seg)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %q is not a list index", ErrUnresolvedRef, pointer, seg)
			}
			x = jp.N(i)
		} else {
			x = jp.C(seg)
		}

		if cur = x.First(cur); cur == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnresolvedRef, pointer)
		}
	}
	return cur, nil
}

func escapePointer(s string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(s)
}

func unescapePointer(s string) string {
	return strings.NewReplacer("~1", "/", "~0", "~").Replace(s)
}

// optCount reads an optional non-negative integer keyword.
func optCount(decl map[string]any, key, path string) (*int, error) {
	v, ok := decl[key]
	if !ok {
		return nil, nil
	}
	n, ok := intValue(v)
	if !ok || n < 0 {
		return nil, fmt.Errorf("%w: %s: %s must be a non-negative integer", ErrInvalidSchema, path, key)
	}
	return &n, nil
}

// intValue accepts the integer forms produced by the JSON and YAML decoders.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}

func floatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
