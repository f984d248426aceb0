package tools

import (
	"encoding/json"
	"fmt"

	"github.com/serhii-ciq/defectdojo-mcp/internal/dojo"
	"github.com/serhii-ciq/defectdojo-mcp/internal/query"
	"github.com/serhii-ciq/defectdojo-mcp/internal/schema"
	"github.com/serhii-ciq/defectdojo-mcp/pkg/mcp"
)

// listResult wraps a successful collection response in the success
// envelope, echoing the filters that shaped the request.
func listResult(res *dojo.Result, filters []query.Filter) *dojo.Result {
	if res.Kind != dojo.KindOK {
		return res
	}
	return successEnvelope(map[string]any{"data": res.Payload}, filters)
}

// recordResult wraps a successful single-record or mutation response.
func recordResult(res *dojo.Result) *dojo.Result {
	if res.Kind != dojo.KindOK {
		return res
	}
	return successEnvelope(map[string]any{"data": res.Payload}, nil)
}

// countResult reduces a successful list response to its total count.
func countResult(res *dojo.Result, filters []query.Filter) *dojo.Result {
	if res.Kind != dojo.KindOK {
		return res
	}
	return successEnvelope(map[string]any{"count": listCount(res.Payload)}, filters)
}

func successEnvelope(fields map[string]any, filters []query.Filter) *dojo.Result {
	fields["status"] = "success"
	if applied := query.Applied(filters); applied != nil {
		fields["applied_filters"] = applied
	}
	payload, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return &dojo.Result{
			Kind:   dojo.KindServerError,
			Detail: &dojo.ErrorDetail{Message: fmt.Sprintf("encode result: %v", err)},
		}
	}
	return dojo.Ok(payload)
}

// listCount extracts the total from a paginated list envelope, zero when
// the response does not carry one.
func listCount(payload json.RawMessage) int {
	var envelope struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return 0
	}
	return envelope.Count
}

// ToCallResult renders a dispatch outcome as an MCP tool result. Error
// outcomes set isError so clients surface them without treating the call
// as a protocol failure.
func ToCallResult(res *dojo.Result) *mcp.CallToolResult {
	if res.Kind == dojo.KindOK {
		return mcp.TextResult(string(res.Payload))
	}

	detail := res.Detail
	if detail == nil {
		detail = &dojo.ErrorDetail{Message: "unspecified error"}
	}
	body := map[string]any{
		"status":     "error",
		"error_kind": string(res.Kind),
		"error":      detail.Message,
	}
	details := map[string]any{}
	if detail.RemoteStatus != 0 {
		details["remote_status"] = detail.RemoteStatus
	}
	if detail.RetryAfterSeconds > 0 {
		details["retry_after_seconds"] = detail.RetryAfterSeconds
	}
	if len(detail.Fields) > 0 {
		details["fields"] = detail.Fields
	}
	if len(detail.Remote) > 0 {
		details["remote"] = detail.Remote
	}
	if len(details) > 0 {
		body["details"] = details
	}

	payload, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		return mcp.ErrorResult(fmt.Sprintf("encode error result: %v", err))
	}
	return mcp.ErrorResult(string(payload))
}

// pageOf reads the pagination arguments; the schema guarantees presence
// via defaults and bounds via limits.
func pageOf(args schema.Args) query.Page {
	return query.Page{Limit: args.Int("limit"), Offset: args.Int("offset")}
}

// withPagination appends the standard limit and offset fields to a
// filter set.
func withPagination(fields []schema.Field, defaultLimit int) []schema.Field {
	return append(fields, schema.Limit(defaultLimit), schema.Offset())
}
