// Package tools defines the DefectDojo tool catalog and dispatches tool
// calls: look the tool up, validate arguments against its schema, run the
// handler, and hand the outcome back as a uniform result. Unknown tools
// and argument failures are reported in the same shape as remote
// failures, so callers see one error surface.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rs/zerolog"

	"github.com/serhii-ciq/defectdojo-mcp/internal/audit"
	"github.com/serhii-ciq/defectdojo-mcp/internal/dojo"
	"github.com/serhii-ciq/defectdojo-mcp/internal/schema"
	"github.com/serhii-ciq/defectdojo-mcp/pkg/mcp"
)

// HandlerFunc executes one tool call with validated arguments.
type HandlerFunc func(ctx context.Context, args schema.Args) *dojo.Result

// Spec binds a tool name to its argument schema and handler.
type Spec struct {
	Name        string
	Description string
	Schema      *schema.Schema
	Handler     HandlerFunc
}

// Handler carries the dependencies tool handlers share.
type Handler struct {
	client *dojo.Client
	log    zerolog.Logger
}

// Registry is the immutable tool catalog plus the dispatcher. Build it
// once at startup; Dispatch is safe for concurrent use afterwards.
type Registry struct {
	specs map[string]*Spec
	order []string
	log   zerolog.Logger
	audit *audit.Store
}

// NewRegistry wires every tool family against the given client. The
// audit store may be nil, which disables invocation recording.
func NewRegistry(client *dojo.Client, log zerolog.Logger, auditStore *audit.Store) *Registry {
	h := &Handler{client: client, log: log}
	r := &Registry{
		specs: make(map[string]*Spec),
		log:   log,
		audit: auditStore,
	}
	r.register(h.findingSpecs())
	r.register(h.productSpecs())
	r.register(h.engagementSpecs())
	r.register(h.testSpecs())
	r.register(h.userSpecs())
	return r
}

// register panics on catalog mistakes; they are programming errors caught
// the first time the process starts.
func (r *Registry) register(specs []*Spec) {
	for _, s := range specs {
		if s.Name == "" {
			panic("tools: spec with empty name")
		}
		if s.Schema == nil || s.Handler == nil {
			panic(fmt.Sprintf("tools: spec %q missing schema or handler", s.Name))
		}
		if _, dup := r.specs[s.Name]; dup {
			panic(fmt.Sprintf("tools: duplicate tool %q", s.Name))
		}
		r.specs[s.Name] = s
		r.order = append(r.order, s.Name)
	}
}

// Tools lists the catalog in registration order for tools/list.
func (r *Registry) Tools() []mcp.Tool {
	tools := make([]mcp.Tool, 0, len(r.order))
	for _, name := range r.order {
		s := r.specs[name]
		tools = append(tools, mcp.Tool{
			Name:        s.Name,
			Description: s.Description,
			InputSchema: s.Schema.InputSchema(),
		})
	}
	return tools
}

// Dispatch runs one tool call end to end. It never returns nil and never
// lets a tool failure escape as an error; every outcome is a Result.
func (r *Registry) Dispatch(ctx context.Context, name string, rawArgs json.RawMessage) *dojo.Result {
	start := time.Now()

	spec, ok := r.specs[name]
	if !ok {
		message := fmt.Sprintf("unknown tool %q", name)
		if hint := r.suggest(name); hint != "" {
			message = fmt.Sprintf("unknown tool %q, did you mean %q?", name, hint)
		}
		return r.observe(ctx, name, start, dojo.Invalid(message, nil))
	}

	args, errs := spec.Schema.Validate(rawArgs)
	if len(errs) > 0 {
		return r.observe(ctx, name, start, dojo.Invalid("invalid arguments", schema.ErrorMap(errs)))
	}

	return r.observe(ctx, name, start, spec.Handler(ctx, args))
}

// observe logs the outcome and records it in the audit store when one is
// configured. Audit failures never affect the dispatch result.
func (r *Registry) observe(ctx context.Context, tool string, start time.Time, res *dojo.Result) *dojo.Result {
	elapsed := time.Since(start)
	r.log.Info().
		Str("tool", tool).
		Str("status", string(res.Kind)).
		Dur("elapsed", elapsed).
		Msg("tool call")

	if r.audit != nil {
		if err := r.audit.Record(ctx, tool, string(res.Kind), elapsed); err != nil {
			r.log.Warn().Err(err).Str("tool", tool).Msg("audit record failed")
		}
	}
	return res
}

// suggest returns the closest registered tool name to a miss, or "" when
// nothing is plausibly close. Candidates are scored so a near-exact name
// beats a looser fuzzy match.
func (r *Registry) suggest(name string) string {
	if name == "" {
		return ""
	}
	lower := strings.ToLower(name)
	best := ""
	bestScore := 0
	for _, candidate := range r.order {
		if lower == candidate {
			return candidate
		}
		score := 0
		if fuzzy.MatchFold(lower, candidate) {
			score += 50
		}
		if d := fuzzy.LevenshteinDistance(lower, candidate); d <= len(candidate)/2 {
			score += 50 - d
		}
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}
	return best
}
