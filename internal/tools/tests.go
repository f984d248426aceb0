package tools

import (
	"context"
	"net/http"

	"github.com/serhii-ciq/defectdojo-mcp/internal/dojo"
	"github.com/serhii-ciq/defectdojo-mcp/internal/query"
	"github.com/serhii-ciq/defectdojo-mcp/internal/schema"
)

const testPageSize = 20

func (h *Handler) testSpecs() []*Spec {
	return []*Spec{
		{
			Name:        "list_tests",
			Description: "List tests (scan runs) with optional filtering by engagement, test type, and tags",
			Schema: schema.New(withPagination([]schema.Field{
				{Name: "engagement_id", Type: schema.Integer, Description: "Restrict to tests under one engagement", Min: schema.N(1)},
				{Name: "test_type", Type: schema.Integer, Description: "Filter by test type ID", Min: schema.N(1)},
				{Name: "tags", Type: schema.StringList, Description: "Filter by tag, or a list of tags"},
				{Name: "tags_mode", Type: schema.String, Description: "How multiple tags combine: all requires every tag, any matches one or more", Enum: []string{"all", "any"}, Default: "all"},
			}, testPageSize)...),
			Handler: h.listTests,
		},
		{
			Name:        "get_test",
			Description: "Get a specific test by its ID",
			Schema: schema.New(schema.Field{
				Name:        "test_id",
				Type:        schema.Integer,
				Description: "The unique identifier of the test",
				Required:    true,
				Min:         schema.N(1),
			}),
			Handler: h.getTest,
		},
	}
}

func (h *Handler) listTests(ctx context.Context, args schema.Args) *dojo.Result {
	filters := query.Tests(query.TestArgs{
		EngagementID: args.IntPtr("engagement_id"),
		TestType:     args.IntPtr("test_type"),
		Tags:         args.StrList("tags"),
		TagsMode:     query.TagMode(args.Str("tags_mode")),
	})
	res := h.client.Do(ctx, dojo.Request{
		Method: http.MethodGet,
		Path:   dojo.TestsPath,
		Query:  query.Encode(query.OrderTests, pageOf(args), filters),
	})
	return listResult(res, filters)
}

func (h *Handler) getTest(ctx context.Context, args schema.Args) *dojo.Result {
	res := h.client.Do(ctx, dojo.Request{
		Method: http.MethodGet,
		Path:   dojo.ItemPath(dojo.TestsPath, args.Int("test_id")),
	})
	return recordResult(res)
}
