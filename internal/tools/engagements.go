package tools

import (
	"context"
	"net/http"

	"github.com/serhii-ciq/defectdojo-mcp/internal/dojo"
	"github.com/serhii-ciq/defectdojo-mcp/internal/query"
	"github.com/serhii-ciq/defectdojo-mcp/internal/schema"
)

const engagementPageSize = 20

// engagementStatuses are the workflow states DefectDojo accepts.
var engagementStatuses = []string{
	"Not Started",
	"Blocked",
	"Cancelled",
	"Completed",
	"In Progress",
	"On Hold",
	"Waiting for Resource",
}

var engagementTypes = []string{"Interactive", "CI/CD"}

func (h *Handler) engagementSpecs() []*Spec {
	return []*Spec{
		{
			Name:        "list_engagements",
			Description: "List engagements with optional filtering and pagination support",
			Schema: schema.New(withPagination([]schema.Field{
				{Name: "product_id", Type: schema.Integer, Description: "Restrict to engagements under one product", Min: schema.N(1)},
				{Name: "status", Type: schema.String, Description: "Filter by engagement status", Enum: engagementStatuses},
				{Name: "name", Type: schema.String, Description: "Filter by engagement name"},
				{Name: "target_start_after", Type: schema.String, Description: "Only engagements starting on or after this date (YYYY-MM-DD)"},
				{Name: "target_end_before", Type: schema.String, Description: "Only engagements ending on or before this date (YYYY-MM-DD)"},
			}, engagementPageSize)...),
			Handler: h.listEngagements,
		},
		{
			Name:        "get_engagement",
			Description: "Get a specific engagement by its ID",
			Schema: schema.New(schema.Field{
				Name:        "engagement_id",
				Type:        schema.Integer,
				Description: "The unique identifier of the engagement",
				Required:    true,
				Min:         schema.N(1),
			}),
			Handler: h.getEngagement,
		},
		{
			Name:        "create_engagement",
			Description: "Create a new engagement under a product",
			Schema: schema.New(append([]schema.Field{
				{Name: "product_id", Type: schema.Integer, Description: "ID of the product the engagement belongs to", Required: true, Min: schema.N(1)},
				{Name: "name", Type: schema.String, Description: "Name of the engagement", Required: true, MinLen: 1},
			}, engagementBodyFields()...)...),
			Handler: h.createEngagement,
		},
		{
			Name:        "update_engagement",
			Description: "Update fields of an existing engagement; only supplied fields change",
			Schema: schema.New(append([]schema.Field{
				{Name: "engagement_id", Type: schema.Integer, Description: "The unique identifier of the engagement", Required: true, Min: schema.N(1)},
				{Name: "name", Type: schema.String, Description: "New name for the engagement"},
			}, engagementBodyFields()...)...),
			Handler: h.updateEngagement,
		},
		{
			Name:        "close_engagement",
			Description: "Close an engagement by setting its status to Completed",
			Schema: schema.New(schema.Field{
				Name:        "engagement_id",
				Type:        schema.Integer,
				Description: "The unique identifier of the engagement",
				Required:    true,
				Min:         schema.N(1),
			}),
			Handler: h.closeEngagement,
		},
	}
}

// engagementBodyFields are the optional engagement attributes shared by
// create and update.
func engagementBodyFields() []schema.Field {
	return []schema.Field{
		{Name: "target_start", Type: schema.String, Description: "Planned start date (YYYY-MM-DD)"},
		{Name: "target_end", Type: schema.String, Description: "Planned end date (YYYY-MM-DD)"},
		{Name: "status", Type: schema.String, Description: "Engagement status", Enum: engagementStatuses},
		{Name: "lead_id", Type: schema.Integer, Description: "User ID of the engagement lead", Min: schema.N(1)},
		{Name: "description", Type: schema.String, Description: "Engagement description"},
		{Name: "version", Type: schema.String, Description: "Version of the product under test"},
		{Name: "build_id", Type: schema.String, Description: "Build identifier"},
		{Name: "commit_hash", Type: schema.String, Description: "Commit hash under test"},
		{Name: "branch_tag", Type: schema.String, Description: "Branch or tag under test"},
		{Name: "engagement_type", Type: schema.String, Description: "Kind of engagement", Enum: engagementTypes},
		{Name: "deduplication_on_engagement", Type: schema.Boolean, Description: "Deduplicate findings within this engagement only"},
		{Name: "tags", Type: schema.StringList, Description: "Tag, or list of tags, to set on the engagement"},
	}
}

// engagementBody collects the supplied engagement attributes. Fields the
// caller did not send are left out so the remote keeps current values.
func engagementBody(args schema.Args) map[string]any {
	body := map[string]any{}
	if args.Has("name") {
		body["name"] = args.Str("name")
	}
	for _, key := range []string{
		"target_start", "target_end", "status", "description",
		"version", "build_id", "commit_hash", "branch_tag", "engagement_type",
	} {
		if args.Has(key) {
			body[key] = args.Str(key)
		}
	}
	if v := args.IntPtr("lead_id"); v != nil {
		body["lead"] = *v
	}
	if v := args.BoolPtr("deduplication_on_engagement"); v != nil {
		body["deduplication_on_engagement"] = *v
	}
	if args.Has("tags") {
		body["tags"] = args.StrList("tags")
	}
	return body
}

func (h *Handler) listEngagements(ctx context.Context, args schema.Args) *dojo.Result {
	filters := query.Engagements(query.EngagementArgs{
		ProductID:        args.IntPtr("product_id"),
		Status:           args.Str("status"),
		Name:             args.Str("name"),
		TargetStartAfter: args.Str("target_start_after"),
		TargetEndBefore:  args.Str("target_end_before"),
	})
	res := h.client.Do(ctx, dojo.Request{
		Method: http.MethodGet,
		Path:   dojo.EngagementsPath,
		Query:  query.Encode(query.OrderEngagements, pageOf(args), filters),
	})
	return listResult(res, filters)
}

func (h *Handler) getEngagement(ctx context.Context, args schema.Args) *dojo.Result {
	res := h.client.Do(ctx, dojo.Request{
		Method: http.MethodGet,
		Path:   dojo.ItemPath(dojo.EngagementsPath, args.Int("engagement_id")),
	})
	return recordResult(res)
}

func (h *Handler) createEngagement(ctx context.Context, args schema.Args) *dojo.Result {
	body := engagementBody(args)
	body["product"] = args.Int("product_id")
	res := h.client.Do(ctx, dojo.Request{
		Method: http.MethodPost,
		Path:   dojo.EngagementsPath,
		Body:   body,
	})
	return recordResult(res)
}

func (h *Handler) updateEngagement(ctx context.Context, args schema.Args) *dojo.Result {
	body := engagementBody(args)
	if len(body) == 0 {
		return dojo.Invalid("at least one updatable field must be provided", nil)
	}
	res := h.client.Do(ctx, dojo.Request{
		Method: http.MethodPatch,
		Path:   dojo.ItemPath(dojo.EngagementsPath, args.Int("engagement_id")),
		Body:   body,
	})
	return recordResult(res)
}

func (h *Handler) closeEngagement(ctx context.Context, args schema.Args) *dojo.Result {
	res := h.client.Do(ctx, dojo.Request{
		Method: http.MethodPatch,
		Path:   dojo.ItemPath(dojo.EngagementsPath, args.Int("engagement_id")),
		Body:   map[string]any{"status": "Completed"},
	})
	return recordResult(res)
}
