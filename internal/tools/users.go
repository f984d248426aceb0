package tools

import (
	"context"
	"net/http"

	"github.com/serhii-ciq/defectdojo-mcp/internal/dojo"
	"github.com/serhii-ciq/defectdojo-mcp/internal/query"
	"github.com/serhii-ciq/defectdojo-mcp/internal/schema"
)

const userPageSize = 50

func (h *Handler) userSpecs() []*Spec {
	return []*Spec{
		{
			Name:        "list_users",
			Description: "List users with optional filtering by username, name, and status flags",
			Schema: schema.New(withPagination([]schema.Field{
				{Name: "username", Type: schema.String, Description: "Filter by username"},
				{Name: "first_name", Type: schema.String, Description: "Filter by first name"},
				{Name: "last_name", Type: schema.String, Description: "Filter by last name"},
				{Name: "is_active", Type: schema.Boolean, Description: "Filter by active account flag"},
				{Name: "is_superuser", Type: schema.Boolean, Description: "Filter by superuser flag"},
			}, userPageSize)...),
			Handler: h.listUsers,
		},
		{
			Name:        "get_user",
			Description: "Get a specific user by their ID",
			Schema: schema.New(schema.Field{
				Name:        "user_id",
				Type:        schema.Integer,
				Description: "The unique identifier of the user",
				Required:    true,
				Min:         schema.N(1),
			}),
			Handler: h.getUser,
		},
		{
			Name:        "list_dojo_groups",
			Description: "List groups (teams) with optional name filtering",
			Schema: schema.New(withPagination([]schema.Field{
				{Name: "name", Type: schema.String, Description: "Filter by group name"},
			}, userPageSize)...),
			Handler: h.listGroups,
		},
		{
			Name:        "list_dojo_group_members",
			Description: "List group memberships, optionally scoped to one group or one user",
			Schema: schema.New(withPagination([]schema.Field{
				{Name: "group_id", Type: schema.Integer, Description: "Restrict to members of one group", Min: schema.N(1)},
				{Name: "user_id", Type: schema.Integer, Description: "Restrict to memberships of one user", Min: schema.N(1)},
			}, userPageSize)...),
			Handler: h.listGroupMembers,
		},
	}
}

func (h *Handler) listUsers(ctx context.Context, args schema.Args) *dojo.Result {
	filters := query.Users(query.UserArgs{
		Username:    args.Str("username"),
		FirstName:   args.Str("first_name"),
		LastName:    args.Str("last_name"),
		IsActive:    args.BoolPtr("is_active"),
		IsSuperuser: args.BoolPtr("is_superuser"),
	})
	res := h.client.Do(ctx, dojo.Request{
		Method: http.MethodGet,
		Path:   dojo.UsersPath,
		Query:  query.Encode(query.OrderUsers, pageOf(args), filters),
	})
	return listResult(res, filters)
}

func (h *Handler) getUser(ctx context.Context, args schema.Args) *dojo.Result {
	res := h.client.Do(ctx, dojo.Request{
		Method: http.MethodGet,
		Path:   dojo.ItemPath(dojo.UsersPath, args.Int("user_id")),
	})
	return recordResult(res)
}

func (h *Handler) listGroups(ctx context.Context, args schema.Args) *dojo.Result {
	filters := query.Groups(query.GroupArgs{Name: args.Str("name")})
	res := h.client.Do(ctx, dojo.Request{
		Method: http.MethodGet,
		Path:   dojo.GroupsPath,
		Query:  query.Encode(query.OrderGroups, pageOf(args), filters),
	})
	return listResult(res, filters)
}

func (h *Handler) listGroupMembers(ctx context.Context, args schema.Args) *dojo.Result {
	filters := query.GroupMembers(query.GroupMemberArgs{
		GroupID: args.IntPtr("group_id"),
		UserID:  args.IntPtr("user_id"),
	})
	res := h.client.Do(ctx, dojo.Request{
		Method: http.MethodGet,
		Path:   dojo.GroupMembersPath,
		Query:  query.Encode(query.OrderGroupMembers, pageOf(args), filters),
	})
	return listResult(res, filters)
}
