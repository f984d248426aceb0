// Package schema declares tool argument sets statically and validates
// incoming argument bags against them. Each tool's fields compile once at
// process start into both the advertised MCP input schema and a JSON
// Schema validator; a single generic validator then checks every call,
// collecting all failures rather than stopping at the first.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Kind is the declared type of one argument field.
type Kind int

const (
	String Kind = iota
	Integer
	Boolean
	// StringList accepts a single string or a list of strings and
	// normalizes to a list.
	StringList
	// IntList accepts a single integer or a list of integers and
	// normalizes to a list.
	IntList
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Boolean:
		return "boolean"
	case StringList:
		return "string list"
	case IntList:
		return "integer list"
	default:
		return "unknown"
	}
}

// Field declares one argument: its type, whether it is required, its
// default when absent, and its allowed values or bounds.
type Field struct {
	Name        string
	Type        Kind
	Description string
	Required    bool
	// Default is applied by the validator when the argument is absent.
	// Must match Type (int for Integer, string for String, ...).
	Default any
	// Enum lists the allowed values for String fields, checked
	// case-sensitively.
	Enum []string
	// Min and Max bound Integer fields inclusively.
	Min *int
	Max *int
	// MinLen is the minimum length for String fields.
	MinLen int
}

// N is a shorthand for integer bound literals in field declarations.
func N(v int) *int { return &v }

// MaxLimit caps every page size.
const MaxLimit = 200

// Limit declares the standard page-size field with the family's default.
func Limit(def int) Field {
	return Field{
		Name:        "limit",
		Type:        Integer,
		Description: fmt.Sprintf("Maximum number of records per page (default %d, max %d)", def, MaxLimit),
		Default:     def,
		Min:         N(1),
		Max:         N(MaxLimit),
	}
}

// Offset declares the standard pagination offset field.
func Offset() Field {
	return Field{
		Name:        "offset",
		Type:        Integer,
		Description: "Number of records to skip (default 0)",
		Default:     0,
		Min:         N(0),
	}
}

// FieldError is one validation failure, one entry per offending field.
type FieldError struct {
	Field   string
	Message string
}

// ErrorMap flattens collected errors into a field-to-message map.
func ErrorMap(errs []FieldError) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	m := make(map[string]string, len(errs))
	for _, e := range errs {
		if _, ok := m[e.Field]; !ok {
			m[e.Field] = e.Message
		}
	}
	return m
}

// Args is a validated, normalized argument bag: integers arrive as int,
// list kinds as typed slices, defaults already applied.
type Args map[string]any

// Str returns a string argument, or "" when absent.
func (a Args) Str(key string) string {
	v, _ := a[key].(string)
	return v
}

// Int returns an integer argument, or 0 when absent.
func (a Args) Int(key string) int {
	v, _ := a[key].(int)
	return v
}

// IntPtr returns an optional integer, nil when absent.
func (a Args) IntPtr(key string) *int {
	if v, ok := a[key].(int); ok {
		return &v
	}
	return nil
}

// BoolPtr returns an optional boolean, nil when absent. Absence is
// distinct from false.
func (a Args) BoolPtr(key string) *bool {
	if v, ok := a[key].(bool); ok {
		return &v
	}
	return nil
}

// StrList returns a string-list argument, nil when absent.
func (a Args) StrList(key string) []string {
	v, _ := a[key].([]string)
	return v
}

// IntList returns an integer-list argument, nil when absent.
func (a Args) IntList(key string) []int {
	v, _ := a[key].([]int)
	return v
}

// Has reports whether the caller supplied the argument (or a default
// filled it).
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// Schema is a compiled field set. Build once with New at process start;
// immutable afterwards.
type Schema struct {
	fields   []Field
	byName   map[string]Field
	compiled *jsonschema.Schema
	input    json.RawMessage
}

// New compiles a field set. Declaration mistakes (duplicate names, a
// default of the wrong type, an enum on a non-string field) are
// programming errors and panic.
func New(fields ...Field) *Schema {
	s := &Schema{
		fields: fields,
		byName: make(map[string]Field, len(fields)),
	}
	for _, f := range fields {
		if f.Name == "" {
			panic("schema: field with empty name")
		}
		if _, dup := s.byName[f.Name]; dup {
			panic(fmt.Sprintf("schema: duplicate field %q", f.Name))
		}
		if len(f.Enum) > 0 && f.Type != String {
			panic(fmt.Sprintf("schema: enum on non-string field %q", f.Name))
		}
		if f.Default != nil && !defaultMatches(f) {
			panic(fmt.Sprintf("schema: default for %q must be a %s", f.Name, f.Type))
		}
		s.byName[f.Name] = f
	}

	validation, err := json.Marshal(s.document(false))
	if err != nil {
		panic(fmt.Sprintf("schema: marshal validation document: %v", err))
	}
	compiled, err := jsonschema.CompileString("arguments.json", string(validation))
	if err != nil {
		panic(fmt.Sprintf("schema: compile: %v", err))
	}
	s.compiled = compiled

	advertised, err := json.Marshal(s.document(true))
	if err != nil {
		panic(fmt.Sprintf("schema: marshal input schema: %v", err))
	}
	s.input = advertised

	return s
}

func defaultMatches(f Field) bool {
	switch f.Type {
	case String:
		v, ok := f.Default.(string)
		if !ok {
			return false
		}
		if len(f.Enum) == 0 {
			return true
		}
		for _, e := range f.Enum {
			if e == v {
				return true
			}
		}
		return false
	case Integer:
		_, ok := f.Default.(int)
		return ok
	case Boolean:
		_, ok := f.Default.(bool)
		return ok
	default:
		return false
	}
}

// InputSchema returns the advertised MCP input schema document.
func (s *Schema) InputSchema() json.RawMessage { return s.input }

// document renders the field set as a JSON Schema. The advertised form
// carries descriptions, defaults, required, additionalProperties:false,
// and scalar-or-list shapes; the validation form declares only the
// normalized types, since required and unknown keys are checked
// separately for per-field error reporting.
func (s *Schema) document(advertised bool) map[string]any {
	props := make(map[string]any, len(s.fields))
	var required []string

	for _, f := range s.fields {
		p := map[string]any{}
		switch f.Type {
		case String:
			p["type"] = "string"
			if len(f.Enum) > 0 {
				p["enum"] = f.Enum
			}
			if f.MinLen > 0 {
				p["minLength"] = f.MinLen
			}
		case Integer:
			p["type"] = "integer"
			if f.Min != nil {
				p["minimum"] = *f.Min
			}
			if f.Max != nil {
				p["maximum"] = *f.Max
			}
		case Boolean:
			p["type"] = "boolean"
		case StringList:
			if advertised {
				p["anyOf"] = []any{
					map[string]any{"type": "string"},
					map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				}
			} else {
				p["type"] = "array"
				p["items"] = map[string]any{"type": "string"}
			}
		case IntList:
			if advertised {
				p["anyOf"] = []any{
					map[string]any{"type": "integer"},
					map[string]any{"type": "array", "items": map[string]any{"type": "integer"}},
				}
			} else {
				p["type"] = "array"
				p["items"] = map[string]any{"type": "integer"}
			}
		}
		if advertised {
			if f.Description != "" {
				p["description"] = f.Description
			}
			if f.Default != nil {
				p["default"] = f.Default
			}
		}
		props[f.Name] = p
		if f.Required {
			required = append(required, f.Name)
		}
	}

	doc := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if advertised {
		doc["additionalProperties"] = false
		if len(required) > 0 {
			doc["required"] = required
		}
	}
	return doc
}

// Validate checks a raw argument bag. On success it returns the
// normalized arguments with defaults applied; on failure it returns all
// collected errors, sorted by field.
func (s *Schema) Validate(raw json.RawMessage) (Args, []FieldError) {
	m, errs := s.decode(raw)
	if errs != nil {
		return nil, errs
	}

	reported := map[string]bool{}
	report := func(field, message string) {
		if !reported[field] {
			reported[field] = true
			errs = append(errs, FieldError{Field: field, Message: message})
		}
	}

	for key := range m {
		if _, known := s.byName[key]; !known {
			report(key, "unknown argument")
		}
	}
	for _, f := range s.fields {
		if _, present := m[f.Name]; f.Required && !present {
			report(f.Name, "required argument missing")
		}
	}

	s.normalizeLists(m, report)
	s.runCompiled(m, report)

	if len(errs) > 0 {
		sort.Slice(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
		return nil, errs
	}

	return s.finalize(m), nil
}

func (s *Schema) decode(raw json.RawMessage) (map[string]any, []FieldError) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, []FieldError{{Field: "arguments", Message: "arguments must be a JSON object"}}
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

// normalizeLists wraps bare scalars for list-typed fields and rejects
// values that are neither, removing rejects so the compiled pass does not
// report them twice.
func (s *Schema) normalizeLists(m map[string]any, report func(field, message string)) {
	for _, f := range s.fields {
		v, present := m[f.Name]
		if !present {
			continue
		}
		switch f.Type {
		case StringList:
			switch v.(type) {
			case string:
				m[f.Name] = []any{v}
			case []any:
			default:
				report(f.Name, "expected a string or list of strings")
				delete(m, f.Name)
			}
		case IntList:
			switch v.(type) {
			case float64:
				m[f.Name] = []any{v}
			case []any:
			default:
				report(f.Name, "expected an integer or list of integers")
				delete(m, f.Name)
			}
		}
	}
}

// runCompiled checks types, enums, and bounds for the known fields,
// collecting every leaf failure.
func (s *Schema) runCompiled(m map[string]any, report func(field, message string)) {
	err := s.compiled.Validate(m)
	if err == nil {
		return
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		report("arguments", err.Error())
		return
	}
	for _, leaf := range collectLeaves(ve, nil) {
		field := fieldFromLocation(leaf.InstanceLocation)
		msg := leaf.Message
		if msg == "" {
			msg = leaf.Error()
		}
		report(field, msg)
	}
}

func collectLeaves(err *jsonschema.ValidationError, acc []*jsonschema.ValidationError) []*jsonschema.ValidationError {
	if err == nil {
		return acc
	}
	if len(err.Causes) == 0 {
		return append(acc, err)
	}
	for _, c := range err.Causes {
		acc = collectLeaves(c, acc)
	}
	return acc
}

// fieldFromLocation maps a JSON pointer like "/tags/1" to its top-level
// field name.
func fieldFromLocation(loc string) string {
	loc = strings.TrimPrefix(loc, "/")
	if loc == "" {
		return "arguments"
	}
	if i := strings.IndexByte(loc, '/'); i >= 0 {
		loc = loc[:i]
	}
	return loc
}

// finalize applies defaults and converts JSON values into their Go
// shapes: float64 to int for integers, []any to typed slices for lists.
func (s *Schema) finalize(m map[string]any) Args {
	args := make(Args, len(s.fields))
	for _, f := range s.fields {
		v, present := m[f.Name]
		if !present {
			if f.Default != nil {
				args[f.Name] = f.Default
			}
			continue
		}
		switch f.Type {
		case Integer:
			args[f.Name] = int(math.Round(v.(float64)))
		case StringList:
			items := v.([]any)
			out := make([]string, len(items))
			for i, it := range items {
				out[i] = it.(string)
			}
			args[f.Name] = out
		case IntList:
			items := v.([]any)
			out := make([]int, len(items))
			for i, it := range items {
				out[i] = int(math.Round(it.(float64)))
			}
			args[f.Name] = out
		default:
			args[f.Name] = v
		}
	}
	return args
}
