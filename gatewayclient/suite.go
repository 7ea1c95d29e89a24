package gatewayclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/plexusone/agentcore-confluence-gateway/internal/log"
)

// ErrNoTools is returned when the gateway advertises no tools.
var ErrNoTools = errors.New("gateway returned no tools; attach a Confluence target to the gateway first")

// Caller is the subset of gateway operations the smoke suite needs.
type Caller interface {
	ListTools(ctx context.Context) ([]*mcp.Tool, error)
	CallTool(ctx context.Context, id int, name string, args map[string]any) (*mcp.CallToolResult, error)
}

var (
	_ Caller = (*Client)(nil)
	_ Caller = (*SDKCaller)(nil)
)

// Status is the outcome of one check.
type Status int

const (
	StatusPassed Status = iota
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// CheckResult records one check.
type CheckResult struct {
	Name    string
	Tool    string
	Status  Status
	Summary []string
	Err     error
}

// Report is the outcome of a suite run.
type Report struct {
	Tools  []*mcp.Tool
	Checks []CheckResult
}

func (r *Report) count(s Status) int {
	n := 0
	for _, c := range r.Checks {
		if c.Status == s {
			n++
		}
	}
	return n
}

// Passed returns the number of passed checks.
func (r *Report) Passed() int { return r.count(StatusPassed) }

// Failed returns the number of failed checks.
func (r *Report) Failed() int { return r.count(StatusFailed) }

// Skipped returns the number of skipped checks.
func (r *Report) Skipped() int { return r.count(StatusSkipped) }

// Suite runs the Confluence smoke checks against a gateway.
type Suite struct {
	Caller    Caller
	Subdomain string
	PageID    int64
	Logger    *slog.Logger
}

type check struct {
	name    string
	keyword string
	id      int
	args    func(s *Suite) map[string]any
	summary func(data map[string]any) []string
}

var checks = []check{
	{
		name:    "search pages",
		keyword: "searchByCQL",
		id:      IDSearch,
		args: func(s *Suite) map[string]any {
			return map[string]any{"cql": "type=page", "sub-domain": s.Subdomain, "limit": 3}
		},
		summary: func(data map[string]any) []string {
			lines := []string{fmt.Sprintf("%v page(s) found", orZero(data["totalSize"]))}
			for i, page := range results(data) {
				if i == 3 {
					break
				}
				lines = append(lines, fmt.Sprintf("%v (ID: %v)", page["title"], page["id"]))
			}
			return lines
		},
	},
	{
		name:    "get page",
		keyword: "getPageById",
		id:      IDGetPage,
		args: func(s *Suite) map[string]any {
			return map[string]any{"id": s.PageID, "sub-domain": s.Subdomain}
		},
		summary: func(data map[string]any) []string {
			return []string{
				fmt.Sprintf("Title  : %v", data["title"]),
				fmt.Sprintf("ID     : %v", data["id"]),
				fmt.Sprintf("Status : %v", data["status"]),
			}
		},
	},
	{
		name:    "list spaces",
		keyword: "getSpaces",
		id:      IDGetSpaces,
		args: func(s *Suite) map[string]any {
			return map[string]any{"sub-domain": s.Subdomain, "limit": 5}
		},
		summary: func(data map[string]any) []string {
			lines := []string{fmt.Sprintf("%v space(s)", orZero(data["totalSize"]))}
			for _, space := range results(data) {
				lines = append(lines, fmt.Sprintf("%v (Key: %v)", space["name"], space["key"]))
			}
			return lines
		},
	},
}

// Run lists the gateway tools and runs each check whose tool is present.
// Discovery failures and an empty tool list are returned as errors; check
// failures are recorded in the report.
func (s *Suite) Run(ctx context.Context) (*Report, error) {
	logger := log.OrDefault(s.Logger)

	tools, err := s.Caller.ListTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tools: %w", err)
	}
	if len(tools) == 0 {
		return &Report{}, ErrNoTools
	}

	report := &Report{Tools: tools}
	for _, c := range checks {
		tool := FindTool(tools, c.keyword)
		if tool == nil {
			logger.Info("skipping check, tool not advertised", "check", c.name, "keyword", c.keyword)
			report.Checks = append(report.Checks, CheckResult{Name: c.name, Status: StatusSkipped})
			continue
		}
		report.Checks = append(report.Checks, s.run(ctx, logger, c, tool.Name))
	}
	return report, nil
}

func (s *Suite) run(ctx context.Context, logger *slog.Logger, c check, tool string) CheckResult {
	result := CheckResult{Name: c.name, Tool: tool}

	res, err := s.Caller.CallTool(ctx, c.id, tool, c.args(s))
	if err == nil && res.IsError {
		err = fmt.Errorf("tool reported an error: %s", contentText(res))
	}
	if err != nil {
		logger.Warn("check failed", "check", c.name, "tool", tool, "error", err)
		result.Status = StatusFailed
		result.Err = err
		return result
	}

	result.Status = StatusPassed
	var data map[string]any
	if text := contentText(res); json.Unmarshal([]byte(text), &data) == nil {
		result.Summary = c.summary(data)
	}
	return result
}

// WriteText prints a human-readable report.
func (r *Report) WriteText(w io.Writer) {
	fmt.Fprintf(w, "%d tool(s) found:\n", len(r.Tools))
	for i, t := range r.Tools {
		fmt.Fprintf(w, "  %d. %s\n", i+1, t.Name)
	}
	for _, c := range r.Checks {
		switch c.Status {
		case StatusSkipped:
			fmt.Fprintf(w, "\n[skip] %s: tool not found\n", c.Name)
		case StatusFailed:
			fmt.Fprintf(w, "\n[fail] %s [%s]: %v\n", c.Name, c.Tool, c.Err)
		default:
			fmt.Fprintf(w, "\n[ok]   %s [%s]\n", c.Name, c.Tool)
			for _, line := range c.Summary {
				fmt.Fprintf(w, "       %s\n", line)
			}
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed, %d skipped\n", r.Passed(), r.Failed(), r.Skipped())
}

func contentText(res *mcp.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		if t, ok := c.(*mcp.TextContent); ok {
			parts = append(parts, t.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func results(data map[string]any) []map[string]any {
	raw, _ := data["results"].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func orZero(v any) any {
	if v == nil {
		return 0
	}
	return v
}
