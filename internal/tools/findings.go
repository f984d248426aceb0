package tools

import (
	"context"
	"net/http"
	"strings"

	"github.com/serhii-ciq/defectdojo-mcp/internal/dojo"
	"github.com/serhii-ciq/defectdojo-mcp/internal/query"
	"github.com/serhii-ciq/defectdojo-mcp/internal/schema"
)

const findingPageSize = 20

// severityLevels is the DefectDojo severity scale, worst first.
var severityLevels = []string{"Critical", "High", "Medium", "Low", "Info"}

// findingStatuses are the accepted status words for update_finding_status.
var findingStatuses = []string{"Active", "Verified", "False Positive", "Mitigated", "Inactive"}

// findingStatusFlags maps each status word to the flag set patched onto
// the finding. Verified keeps the finding open; Mitigated closes it.
var findingStatusFlags = map[string]map[string]any{
	"Active":         {"active": true},
	"Verified":       {"verified": true, "active": true},
	"False Positive": {"false_p": true},
	"Mitigated":      {"mitigated": true, "active": false},
	"Inactive":       {"active": false},
}

func (h *Handler) findingSpecs() []*Spec {
	return []*Spec{
		{
			Name:        "get_findings",
			Description: "Get findings with filtering options and pagination support",
			Schema:      schema.New(withPagination(findingFilterFields(), findingPageSize)...),
			Handler:     h.getFindings,
		},
		{
			Name:        "search_findings",
			Description: "Search for findings using a text query across titles and descriptions",
			Schema:      schema.New(searchFindingFields()...),
			Handler:     h.searchFindings,
		},
		{
			Name:        "count_findings",
			Description: "Count findings matching the given filters without fetching them",
			Schema:      schema.New(findingFilterFields()...),
			Handler:     h.countFindings,
		},
		{
			Name:        "get_finding",
			Description: "Get a specific finding by its ID with full details",
			Schema: schema.New(schema.Field{
				Name:        "finding_id",
				Type:        schema.Integer,
				Description: "The unique identifier of the finding",
				Required:    true,
				Min:         schema.N(1),
			}),
			Handler: h.getFinding,
		},
		{
			Name:        "update_finding_status",
			Description: "Update the status of a finding (Active, Verified, False Positive, Mitigated, Inactive)",
			Schema: schema.New(
				schema.Field{
					Name:        "finding_id",
					Type:        schema.Integer,
					Description: "The unique identifier of the finding",
					Required:    true,
					Min:         schema.N(1),
				},
				schema.Field{
					Name:        "status",
					Type:        schema.String,
					Description: "New status for the finding",
					Required:    true,
					Enum:        findingStatuses,
				},
			),
			Handler: h.updateFindingStatus,
		},
		{
			Name:        "add_finding_note",
			Description: "Add a note to a finding",
			Schema: schema.New(
				schema.Field{
					Name:        "finding_id",
					Type:        schema.Integer,
					Description: "The unique identifier of the finding",
					Required:    true,
					Min:         schema.N(1),
				},
				schema.Field{
					Name:        "note",
					Type:        schema.String,
					Description: "Text of the note to attach",
					Required:    true,
					MinLen:      1,
				},
			),
			Handler: h.addFindingNote,
		},
		{
			Name:        "create_finding",
			Description: "Create a new finding under a test",
			Schema: schema.New(
				schema.Field{
					Name:        "title",
					Type:        schema.String,
					Description: "Title of the finding",
					Required:    true,
					MinLen:      1,
				},
				schema.Field{
					Name:        "test_id",
					Type:        schema.Integer,
					Description: "ID of the test to attach the finding to",
					Required:    true,
					Min:         schema.N(1),
				},
				schema.Field{
					Name:        "severity",
					Type:        schema.String,
					Description: "Severity level",
					Required:    true,
					Enum:        severityLevels,
				},
				schema.Field{
					Name:        "description",
					Type:        schema.String,
					Description: "Description of the finding",
					Required:    true,
					MinLen:      1,
				},
				schema.Field{
					Name:        "cwe",
					Type:        schema.Integer,
					Description: "CWE identifier",
					Min:         schema.N(1),
				},
				schema.Field{
					Name:        "cvssv3",
					Type:        schema.String,
					Description: "CVSS v3 vector string",
				},
				schema.Field{
					Name:        "mitigation",
					Type:        schema.String,
					Description: "Mitigation guidance",
				},
				schema.Field{
					Name:        "impact",
					Type:        schema.String,
					Description: "Impact description",
				},
				schema.Field{
					Name:        "steps_to_reproduce",
					Type:        schema.String,
					Description: "Steps to reproduce the finding",
				},
			),
			Handler: h.createFinding,
		},
	}
}

// findingFilterFields is the filter set shared by the finding list,
// search, and count tools.
func findingFilterFields() []schema.Field {
	return []schema.Field{
		{Name: "product_name", Type: schema.String, Description: "Filter by product name"},
		{Name: "severity", Type: schema.String, Description: "Filter by severity", Enum: severityLevels},
		{Name: "active", Type: schema.Boolean, Description: "Filter by active status (true for open findings, false for closed)"},
		{Name: "is_mitigated", Type: schema.Boolean, Description: "Filter by mitigation status"},
		{Name: "duplicate", Type: schema.Boolean, Description: "Filter by duplicate flag"},
		{Name: "engagement_id", Type: schema.Integer, Description: "Restrict to findings under one engagement", Min: schema.N(1)},
	}
}

func searchFindingFields() []schema.Field {
	fields := []schema.Field{{
		Name:        "query",
		Type:        schema.String,
		Description: "Text to search for in finding titles and descriptions",
		Required:    true,
		MinLen:      1,
	}}
	fields = append(fields, findingFilterFields()...)
	return withPagination(fields, findingPageSize)
}

func findingFilters(args schema.Args) query.FindingArgs {
	return query.FindingArgs{
		ProductName:  args.Str("product_name"),
		Severity:     args.Str("severity"),
		Active:       args.BoolPtr("active"),
		IsMitigated:  args.BoolPtr("is_mitigated"),
		Duplicate:    args.BoolPtr("duplicate"),
		EngagementID: args.IntPtr("engagement_id"),
	}
}

func (h *Handler) getFindings(ctx context.Context, args schema.Args) *dojo.Result {
	filters := query.Findings(findingFilters(args))
	res := h.client.Do(ctx, dojo.Request{
		Method: http.MethodGet,
		Path:   dojo.FindingsPath,
		Query:  query.Encode(query.OrderFindings, pageOf(args), filters),
	})
	return listResult(res, filters)
}

func (h *Handler) searchFindings(ctx context.Context, args schema.Args) *dojo.Result {
	a := findingFilters(args)
	a.Query = args.Str("query")
	filters := query.Findings(a)
	res := h.client.Do(ctx, dojo.Request{
		Method: http.MethodGet,
		Path:   dojo.FindingsPath,
		Query:  query.Encode(query.OrderFindings, pageOf(args), filters),
	})
	return listResult(res, filters)
}

func (h *Handler) countFindings(ctx context.Context, args schema.Args) *dojo.Result {
	filters := query.Findings(findingFilters(args))
	res := h.client.Do(ctx, dojo.Request{
		Method: http.MethodGet,
		Path:   dojo.FindingsPath,
		Query:  query.Encode(query.OrderFindings, query.CountPage(), filters),
	})
	return countResult(res, filters)
}

func (h *Handler) getFinding(ctx context.Context, args schema.Args) *dojo.Result {
	res := h.client.Do(ctx, dojo.Request{
		Method: http.MethodGet,
		Path:   dojo.ItemPath(dojo.FindingsPath, args.Int("finding_id")),
	})
	return recordResult(res)
}

func (h *Handler) updateFindingStatus(ctx context.Context, args schema.Args) *dojo.Result {
	res := h.client.Do(ctx, dojo.Request{
		Method: http.MethodPatch,
		Path:   dojo.ItemPath(dojo.FindingsPath, args.Int("finding_id")),
		Body:   findingStatusFlags[args.Str("status")],
	})
	return recordResult(res)
}

func (h *Handler) addFindingNote(ctx context.Context, args schema.Args) *dojo.Result {
	note := args.Str("note")
	if strings.TrimSpace(note) == "" {
		return dojo.Invalid("invalid arguments", map[string]string{
			"note": "note content cannot be empty",
		})
	}
	res := h.client.Do(ctx, dojo.Request{
		Method: http.MethodPost,
		Path:   dojo.NotesPath,
		Body: map[string]any{
			"entry":   note,
			"finding": args.Int("finding_id"),
		},
	})
	return recordResult(res)
}

func (h *Handler) createFinding(ctx context.Context, args schema.Args) *dojo.Result {
	body := map[string]any{
		"title":       args.Str("title"),
		"test":        args.Int("test_id"),
		"severity":    args.Str("severity"),
		"description": args.Str("description"),
		"active":      true,
		"verified":    false,
	}
	if v := args.IntPtr("cwe"); v != nil {
		body["cwe"] = *v
	}
	for _, key := range []string{"cvssv3", "mitigation", "impact", "steps_to_reproduce"} {
		if args.Has(key) {
			body[key] = args.Str(key)
		}
	}
	res := h.client.Do(ctx, dojo.Request{
		Method: http.MethodPost,
		Path:   dojo.FindingsPath,
		Body:   body,
	})
	return recordResult(res)
}
