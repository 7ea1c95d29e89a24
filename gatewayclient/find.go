package gatewayclient

import (
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// FindTool returns the first tool whose name contains keyword, or nil.
// Gateway tools are named <target>___<operation>.
func FindTool(tools []*mcp.Tool, keyword string) *mcp.Tool {
	for _, t := range tools {
		if t != nil && strings.Contains(t.Name, keyword) {
			return t
		}
	}
	return nil
}
