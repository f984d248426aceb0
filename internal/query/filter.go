// Package query translates validated tool arguments into the DefectDojo
// query-parameter dialect. Filters are a closed set of variants so a
// filter kind cannot be silently dropped or mis-encoded; each variant
// knows both its remote encoding and its applied-filters echo.
package query

import (
	"net/url"
	"strconv"
)

// TagMode selects how multiple tags combine.
type TagMode string

const (
	// TagModeAll requires every listed tag (remote intersects repeated
	// "tags" parameters).
	TagModeAll TagMode = "all"
	// TagModeAny matches at least one listed tag (remote unions repeated
	// "tag" parameters).
	TagModeAny TagMode = "any"
)

// Deterministic ordering per family, pinned so paging is stable.
const (
	OrderFindings     = "id"
	OrderProducts     = "id"
	OrderProductTypes = "id"
	OrderEngagements  = "-updated"
	OrderTests        = "-id"
	OrderUsers        = "id"
	OrderGroups       = "id"
	OrderGroupMembers = "id"
)

// Filter is one remote query condition. The variant set is closed: term,
// ids, bool, tag, scope, search, and date range.
type Filter interface {
	encode(v url.Values)
	echo(applied map[string]any)
}

// Page is explicit pagination; both values always serialize.
type Page struct {
	Limit  int
	Offset int
}

// CountPage requests the minimal page: count tools only need the
// envelope's count field, not records.
func CountPage() Page { return Page{Limit: 1, Offset: 0} }

// Encode serializes ordering, pagination, and all filters into the
// outbound query string.
func Encode(order string, page Page, filters []Filter) url.Values {
	v := url.Values{}
	v.Set("limit", strconv.Itoa(page.Limit))
	v.Set("offset", strconv.Itoa(page.Offset))
	if order != "" {
		v.Set("o", order)
	}
	for _, f := range filters {
		f.encode(v)
	}
	return v
}

// Applied echoes the semantic filters under their remote parameter names
// (text search echoes as "query"), excluding pagination and ordering.
// Returns nil when no filter was applied.
func Applied(filters []Filter) map[string]any {
	if len(filters) == 0 {
		return nil
	}
	m := make(map[string]any, len(filters))
	for _, f := range filters {
		f.echo(m)
	}
	return m
}

// Term matches a field against a string value.
func Term(field, value string) Filter { return termFilter{field, value} }

// IDs matches a field against one or more numeric ids, repeated in the
// query string.
func IDs(field string, ids []int) Filter { return idsFilter{field, ids} }

// Bool serializes a tri-state filter that the caller explicitly set;
// absent booleans never reach the builder.
func Bool(field string, value bool) Filter { return boolFilter{field, value} }

// Tags filters by tags under the given combination mode.
func Tags(mode TagMode, tags []string) Filter { return tagFilter{mode, tags} }

// Scope restricts results to a parent entity. It is a hard filter applied
// at request-build time, never client-side.
func Scope(field string, id int) Filter { return scopeFilter{field, id} }

// Search is the free-text condition; it composes with every other filter.
func Search(text string) Filter { return searchFilter{text} }

// DateRange bounds a date field with inclusive ISO-8601 endpoints, either
// of which may be empty.
func DateRange(field, after, before string) Filter {
	return rangeFilter{field, after, before}
}

type termFilter struct {
	field string
	value string
}

func (f termFilter) encode(v url.Values)         { v.Set(f.field, f.value) }
func (f termFilter) echo(applied map[string]any) { applied[f.field] = f.value }

type idsFilter struct {
	field string
	ids   []int
}

func (f idsFilter) encode(v url.Values) {
	for _, id := range f.ids {
		v.Add(f.field, strconv.Itoa(id))
	}
}

func (f idsFilter) echo(applied map[string]any) {
	if len(f.ids) == 1 {
		applied[f.field] = f.ids[0]
		return
	}
	applied[f.field] = f.ids
}

type boolFilter struct {
	field string
	value bool
}

func (f boolFilter) encode(v url.Values)         { v.Set(f.field, strconv.FormatBool(f.value)) }
func (f boolFilter) echo(applied map[string]any) { applied[f.field] = f.value }

type tagFilter struct {
	mode TagMode
	tags []string
}

func (f tagFilter) param() string {
	if f.mode == TagModeAny {
		return "tag"
	}
	return "tags"
}

func (f tagFilter) encode(v url.Values) {
	for _, t := range f.tags {
		v.Add(f.param(), t)
	}
}

func (f tagFilter) echo(applied map[string]any) { applied[f.param()] = f.tags }

type scopeFilter struct {
	field string
	id    int
}

func (f scopeFilter) encode(v url.Values)         { v.Set(f.field, strconv.Itoa(f.id)) }
func (f scopeFilter) echo(applied map[string]any) { applied[f.field] = f.id }

type searchFilter struct {
	text string
}

func (f searchFilter) encode(v url.Values)         { v.Set("search", f.text) }
func (f searchFilter) echo(applied map[string]any) { applied["query"] = f.text }

type rangeFilter struct {
	field  string
	after  string
	before string
}

func (f rangeFilter) encode(v url.Values) {
	if f.after != "" {
		v.Set(f.field+"__gte", f.after)
	}
	if f.before != "" {
		v.Set(f.field+"__lte", f.before)
	}
}

func (f rangeFilter) echo(applied map[string]any) {
	if f.after != "" {
		applied[f.field+"__gte"] = f.after
	}
	if f.before != "" {
		applied[f.field+"__lte"] = f.before
	}
}
