// Package server runs the MCP protocol loop: read one JSON-RPC message
// per line from stdin, route it, write the response to stdout. Logs go
// to stderr so the protocol stream stays clean.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/serhii-ciq/defectdojo-mcp/internal/tools"
	"github.com/serhii-ciq/defectdojo-mcp/pkg/mcp"
)

// Name and Version identify the server in initialize responses.
const (
	Name    = "defectdojo-mcp"
	Version = "1.0.0"
)

// Server routes MCP requests to the tool registry.
type Server struct {
	transport *mcp.Transport
	registry  *tools.Registry
	log       zerolog.Logger
}

// New creates a server over the given transport.
func New(transport *mcp.Transport, registry *tools.Registry, log zerolog.Logger) *Server {
	return &Server{
		transport: transport,
		registry:  registry,
		log:       log,
	}
}

// Run serves until the input stream closes or ctx is canceled. A closed
// stdin is the normal shutdown path for a stdio server.
func (s *Server) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		req, err := s.transport.ReadMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.log.Warn().Err(err).Msg("skipping unreadable message")
			continue
		}

		resp := s.handleRequest(ctx, req)
		if resp == nil || req.IsNotification() {
			continue
		}
		if err := s.transport.WriteResponse(resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
}

func (s *Server) handleRequest(ctx context.Context, req *mcp.Request) *mcp.Response {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Notification, nothing to answer.
		return nil
	case "tools/list":
		return s.handleListTools(req)
	case "tools/call":
		return s.handleCallTool(ctx, req)
	case "ping":
		return s.handlePing(req)
	default:
		return mcp.NewErrorResponse(req.ID, mcp.MethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}
}

func (s *Server) handleInitialize(req *mcp.Request) *mcp.Response {
	result := mcp.InitializeResult{
		ProtocolVersion: mcp.ProtocolVersion,
		Capabilities: mcp.ServerCapabilities{
			Tools: &mcp.ToolsCapability{},
		},
		ServerInfo: mcp.ServerInfo{
			Name:    Name,
			Version: Version,
		},
		Instructions: s.buildInstructions(),
	}

	resp, err := mcp.NewResponse(req.ID, result)
	if err != nil {
		return mcp.NewErrorResponse(req.ID, mcp.InternalError, err.Error())
	}
	return resp
}

func (s *Server) handleListTools(req *mcp.Request) *mcp.Response {
	result := mcp.ListToolsResult{
		Tools: s.registry.Tools(),
	}

	resp, err := mcp.NewResponse(req.ID, result)
	if err != nil {
		return mcp.NewErrorResponse(req.ID, mcp.InternalError, err.Error())
	}
	return resp
}

func (s *Server) handleCallTool(ctx context.Context, req *mcp.Request) *mcp.Response {
	var params mcp.CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return mcp.NewErrorResponse(req.ID, mcp.InvalidParams, "Invalid params: "+err.Error())
	}

	result := tools.ToCallResult(s.registry.Dispatch(ctx, params.Name, params.Arguments))

	resp, err := mcp.NewResponse(req.ID, result)
	if err != nil {
		return mcp.NewErrorResponse(req.ID, mcp.InternalError, err.Error())
	}
	return resp
}

func (s *Server) handlePing(req *mcp.Request) *mcp.Response {
	resp, _ := mcp.NewResponse(req.ID, map[string]any{})
	return resp
}

func (s *Server) buildInstructions() string {
	var sb strings.Builder
	sb.WriteString("DefectDojo MCP server: query and manage findings, products, engagements, tests, and users through the DefectDojo REST API.\n\n")
	sb.WriteString("Tool families:\n")
	sb.WriteString("- Findings: get_findings, search_findings, count_findings, get_finding, update_finding_status, add_finding_note, create_finding\n")
	sb.WriteString("- Products: list_products, count_products, get_product, list_product_types\n")
	sb.WriteString("- Engagements: list_engagements, get_engagement, create_engagement, update_engagement, close_engagement\n")
	sb.WriteString("- Tests: list_tests, get_test\n")
	sb.WriteString("- Users and groups: list_users, get_user, list_dojo_groups, list_dojo_group_members\n\n")
	sb.WriteString("List tools accept filters plus limit/offset pagination; count tools take the same filters without pagination. ")
	sb.WriteString("Results are JSON with a status field; errors carry an error_kind and per-field details where available.\n")
	return sb.String()
}
