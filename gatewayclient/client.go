package gatewayclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/plexusone/agentcore-confluence-gateway/internal/log"
)

// DefaultTimeout bounds a single gateway call.
const DefaultTimeout = 30 * time.Second

// Request ids used by the smoke suite.
const (
	IDListTools = 1
	IDSearch    = 2
	IDGetPage   = 3
	IDGetSpaces = 4
)

// ErrMissingResult is returned when a JSON-RPC response carries neither a
// result nor an error.
var ErrMissingResult = errors.New("gatewayclient: response has no result")

// GatewayURL returns the MCP endpoint of a gateway.
func GatewayURL(gatewayID, region string) string {
	return fmt.Sprintf("https://%s.gateway.bedrock-agentcore.%s.amazonaws.com/mcp", gatewayID, region)
}

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is a JSON-RPC error object.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// HTTPError is returned for a non-2xx gateway response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("gateway returned HTTP %d: %s", e.StatusCode, e.Body)
}

// Client sends one JSON-RPC request per call to a gateway endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client. A nil httpClient gets DefaultTimeout and no signing.
func New(endpoint string, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	c := &Client{endpoint: endpoint, http: httpClient}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = log.OrDefault(c.logger)
	return c
}

// Endpoint returns the gateway URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Call sends method with params and returns the decoded response. A JSON-RPC
// error object is returned as the response, not as an error.
func (c *Client) Call(ctx context.Context, method string, params any, id int) (*Response, error) {
	body, err := json.Marshal(Request{JSONRPC: "2.0", ID: id, Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	c.logger.Debug("gateway call", "method", method, "id", id)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	out, err := readResponse(resp, id)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", method, err)
	}
	return out, nil
}

// readResponse decodes the response to request id. An event stream may carry
// notifications and server requests ahead of the response; those are skipped.
func readResponse(resp *http.Response, id int) (*Response, error) {
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "text/event-stream" {
		var out Response
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("decoding response: %w", err)
		}
		return &out, nil
	}

	var data []string
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for {
		more := scanner.Scan()
		line := scanner.Text()
		if more && line != "" {
			if v, ok := strings.CutPrefix(line, "data:"); ok {
				data = append(data, strings.TrimPrefix(v, " "))
			}
			continue
		}
		if len(data) > 0 {
			out, ok, err := matchEvent(strings.Join(data, "\n"), id)
			if err != nil {
				return nil, err
			}
			if ok {
				return out, nil
			}
			data = data[:0]
		}
		if !more {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("event stream closed without a response to request %d", id)
}

// matchEvent decodes one event and reports whether it answers request id.
func matchEvent(payload string, id int) (*Response, bool, error) {
	var msg struct {
		Response
		Method string `json:"method,omitempty"`
	}
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return nil, false, fmt.Errorf("decoding event: %w", err)
	}
	if msg.Method != "" || len(msg.ID) == 0 {
		return nil, false, nil
	}
	var got json.Number
	if err := json.Unmarshal(msg.ID, &got); err != nil || got.String() != strconv.Itoa(id) {
		return nil, false, nil
	}
	return &msg.Response, true, nil
}

func (c *Client) result(ctx context.Context, method string, params any, id int, v any) error {
	resp, err := c.Call(ctx, method, params, id)
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return resp.Error
	}
	if len(resp.Result) == 0 || string(resp.Result) == "null" {
		return ErrMissingResult
	}
	if err := json.Unmarshal(resp.Result, v); err != nil {
		return fmt.Errorf("decoding %s result: %w", method, err)
	}
	return nil
}

// ListTools calls tools/list.
func (c *Client) ListTools(ctx context.Context) ([]*mcp.Tool, error) {
	var res mcp.ListToolsResult
	if err := c.result(ctx, "tools/list", nil, IDListTools, &res); err != nil {
		return nil, err
	}
	return res.Tools, nil
}

// CallTool calls tools/call with a fixed request id.
func (c *Client) CallTool(ctx context.Context, id int, name string, args map[string]any) (*mcp.CallToolResult, error) {
	params := &mcp.CallToolParams{Name: name, Arguments: args}
	var res mcp.CallToolResult
	if err := c.result(ctx, "tools/call", params, id, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
