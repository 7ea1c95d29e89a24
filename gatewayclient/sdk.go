package gatewayclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ClientName identifies the smoke client to the gateway.
const ClientName = "confluence-gateway-smoke"

// SDKCaller runs gateway calls through an MCP SDK session over the
// streamable HTTP transport. Request ids are assigned by the session.
type SDKCaller struct {
	session *mcp.ClientSession
}

// ConnectSDK opens an MCP session to endpoint. httpClient should sign
// requests, see NewHTTPClient.
func ConnectSDK(ctx context.Context, endpoint, version string, httpClient *http.Client) (*SDKCaller, error) {
	client := mcp.NewClient(&mcp.Implementation{Name: ClientName, Version: version}, nil)
	transport := &mcp.StreamableClientTransport{
		Endpoint:   endpoint,
		HTTPClient: httpClient,
		MaxRetries: 1,
	}
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to gateway %s: %w", endpoint, err)
	}
	return &SDKCaller{session: session}, nil
}

// ListTools lists every tool, following pagination cursors.
func (c *SDKCaller) ListTools(ctx context.Context) ([]*mcp.Tool, error) {
	var tools []*mcp.Tool
	params := &mcp.ListToolsParams{}
	for {
		res, err := c.session.ListTools(ctx, params)
		if err != nil {
			return nil, err
		}
		tools = append(tools, res.Tools...)
		if res.NextCursor == "" {
			return tools, nil
		}
		params = &mcp.ListToolsParams{Cursor: res.NextCursor}
	}
}

// CallTool invokes a tool. The id is ignored.
func (c *SDKCaller) CallTool(ctx context.Context, _ int, name string, args map[string]any) (*mcp.CallToolResult, error) {
	return c.session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
}

// Close ends the session.
func (c *SDKCaller) Close() error {
	return c.session.Close()
}
