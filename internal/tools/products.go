package tools

import (
	"context"
	"net/http"

	"github.com/serhii-ciq/defectdojo-mcp/internal/dojo"
	"github.com/serhii-ciq/defectdojo-mcp/internal/query"
	"github.com/serhii-ciq/defectdojo-mcp/internal/schema"
)

const productPageSize = 50

func (h *Handler) productSpecs() []*Spec {
	return []*Spec{
		{
			Name:        "list_products",
			Description: "List products with optional filtering and pagination support",
			Schema:      schema.New(withPagination(productFilterFields(), productPageSize)...),
			Handler:     h.listProducts,
		},
		{
			Name:        "count_products",
			Description: "Count products matching the given filters without fetching them",
			Schema:      schema.New(productFilterFields()...),
			Handler:     h.countProducts,
		},
		{
			Name:        "get_product",
			Description: "Get a specific product by its ID",
			Schema: schema.New(schema.Field{
				Name:        "product_id",
				Type:        schema.Integer,
				Description: "The unique identifier of the product",
				Required:    true,
				Min:         schema.N(1),
			}),
			Handler: h.getProduct,
		},
		{
			Name:        "list_product_types",
			Description: "List product types with optional name filtering and pagination",
			Schema: schema.New(withPagination([]schema.Field{
				{Name: "name", Type: schema.String, Description: "Filter by product type name"},
			}, productPageSize)...),
			Handler: h.listProductTypes,
		},
	}
}

// productFilterFields is the filter set shared by the product list and
// count tools.
func productFilterFields() []schema.Field {
	return []schema.Field{
		{Name: "name", Type: schema.String, Description: "Filter by product name"},
		{Name: "prod_type", Type: schema.IntList, Description: "Filter by product type ID, or a list of IDs"},
		{Name: "tags", Type: schema.StringList, Description: "Filter by tag, or a list of tags"},
		{Name: "tags_mode", Type: schema.String, Description: "How multiple tags combine: all requires every tag, any matches one or more", Enum: []string{"all", "any"}, Default: "all"},
		{Name: "external_audience", Type: schema.Boolean, Description: "Filter by the external audience flag"},
		{Name: "internet_accessible", Type: schema.Boolean, Description: "Filter by the internet accessible flag"},
	}
}

func productFilters(args schema.Args) query.ProductArgs {
	return query.ProductArgs{
		Name:               args.Str("name"),
		ProdTypes:          args.IntList("prod_type"),
		Tags:               args.StrList("tags"),
		TagsMode:           query.TagMode(args.Str("tags_mode")),
		ExternalAudience:   args.BoolPtr("external_audience"),
		InternetAccessible: args.BoolPtr("internet_accessible"),
	}
}

func (h *Handler) listProducts(ctx context.Context, args schema.Args) *dojo.Result {
	filters := query.Products(productFilters(args))
	res := h.client.Do(ctx, dojo.Request{
		Method: http.MethodGet,
		Path:   dojo.ProductsPath,
		Query:  query.Encode(query.OrderProducts, pageOf(args), filters),
	})
	return listResult(res, filters)
}

func (h *Handler) countProducts(ctx context.Context, args schema.Args) *dojo.Result {
	filters := query.Products(productFilters(args))
	res := h.client.Do(ctx, dojo.Request{
		Method: http.MethodGet,
		Path:   dojo.ProductsPath,
		Query:  query.Encode(query.OrderProducts, query.CountPage(), filters),
	})
	return countResult(res, filters)
}

func (h *Handler) getProduct(ctx context.Context, args schema.Args) *dojo.Result {
	res := h.client.Do(ctx, dojo.Request{
		Method: http.MethodGet,
		Path:   dojo.ItemPath(dojo.ProductsPath, args.Int("product_id")),
	})
	return recordResult(res)
}

func (h *Handler) listProductTypes(ctx context.Context, args schema.Args) *dojo.Result {
	filters := query.ProductTypes(query.ProductTypeArgs{Name: args.Str("name")})
	res := h.client.Do(ctx, dojo.Request{
		Method: http.MethodGet,
		Path:   dojo.ProductTypesPath,
		Query:  query.Encode(query.OrderProductTypes, pageOf(args), filters),
	})
	return listResult(res, filters)
}
