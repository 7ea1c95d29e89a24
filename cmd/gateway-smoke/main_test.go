package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexusone/agentcore-confluence-gateway/gatewayclient"
	"github.com/plexusone/agentcore-confluence-gateway/internal/cli"
	"github.com/plexusone/agentcore-confluence-gateway/params"
	"github.com/plexusone/agentcore-confluence-gateway/params/paramstest"
)

type stubCaller struct {
	tools   []*mcp.Tool
	isError bool
	lists   int
	calls   []string
}

func (s *stubCaller) ListTools(context.Context) ([]*mcp.Tool, error) {
	s.lists++
	return s.tools, nil
}

func (s *stubCaller) CallTool(_ context.Context, _ int, name string, _ map[string]any) (*mcp.CallToolResult, error) {
	s.calls = append(s.calls, name)
	return &mcp.CallToolResult{IsError: s.isError, Content: []mcp.Content{&mcp.TextContent{Text: "{}"}}}, nil
}

type harness struct {
	store    *paramstest.FakeSSM
	caller   *stubCaller
	endpoint string
	opened   int
}

func (h *harness) clients(_ context.Context, region string) (*cli.AWSClients, error) {
	c := &cli.AWSClients{SSM: h.store}
	c.Config.Region = region
	return c, nil
}

func (h *harness) open(_ context.Context, _, endpoint string, _ *cli.AWSClients, _ *slog.Logger) (gatewayclient.Caller, func() error, error) {
	h.opened++
	h.endpoint = endpoint
	return h.caller, nil, nil
}

func execute(t *testing.T, h *harness, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("AWS_REGION", "us-east-1")
	cmd := newRootCmd(h.clients, h.open)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{}, args...))
	code := cli.Execute(context.Background(), cmd)
	return code, stdout.String(), stderr.String()
}

func TestMissingGatewayIDFailsBeforeGatewayCall(t *testing.T) {
	h := &harness{store: paramstest.New(nil), caller: &stubCaller{}}

	code, _, stderr := execute(t, h)

	assert.Equal(t, 1, code)
	assert.Zero(t, h.opened)
	assert.Contains(t, stderr, params.GatewayID)
}

func TestZeroToolsExitsOneWithoutFurtherCalls(t *testing.T) {
	h := &harness{
		store:  paramstest.New(map[string]string{params.GatewayID: "gw-123"}),
		caller: &stubCaller{},
	}

	code, _, stderr := execute(t, h)

	assert.Equal(t, 1, code)
	assert.Equal(t, 1, h.caller.lists)
	assert.Empty(t, h.caller.calls)
	assert.Contains(t, stderr, "no tools")
}

func TestRunsChecksAgainstStoredGateway(t *testing.T) {
	h := &harness{
		store: paramstest.New(map[string]string{
			params.GatewayID:           "gw-123",
			params.ConfluenceSubdomain: "acme",
		}),
		caller: &stubCaller{tools: []*mcp.Tool{{Name: "confluence___searchByCQL"}, {Name: "confluence___getSpaces"}}},
	}

	code, stdout, _ := execute(t, h)

	require.Equal(t, 0, code)
	assert.Equal(t, "https://gw-123.gateway.bedrock-agentcore.us-east-1.amazonaws.com/mcp", h.endpoint)
	assert.Equal(t, []string{"confluence___searchByCQL", "confluence___getSpaces"}, h.caller.calls)
	assert.Contains(t, stdout, "Confluence  : acme.atlassian.net")
	assert.Contains(t, stdout, "2 passed, 0 failed, 1 skipped")
}

func TestStrictFailsOnFailedCheck(t *testing.T) {
	newHarness := func() *harness {
		return &harness{
			store:  paramstest.New(nil),
			caller: &stubCaller{tools: []*mcp.Tool{{Name: "confluence___getPageById"}}, isError: true},
		}
	}

	code, _, _ := execute(t, newHarness(), "--gateway-id", "gw-override")
	assert.Equal(t, 0, code)

	h := newHarness()
	code, _, stderr := execute(t, h, "--gateway-id", "gw-override", "--strict")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "1 check(s) failed")
	assert.Contains(t, h.endpoint, "gw-override")
}

func TestUnknownTransport(t *testing.T) {
	h := &harness{store: paramstest.New(nil), caller: &stubCaller{}}

	code, _, stderr := execute(t, h, "--transport", "grpc")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown transport")
	assert.Empty(t, h.store.Gets)
}
