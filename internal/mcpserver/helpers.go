package mcpserver

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mvp-joe/rlm/internal/config"
	"github.com/mvp-joe/rlm/internal/query"
	"github.com/mvp-joe/rlm/internal/storage"
)

// parseToolArguments validates and extracts the arguments map from an MCP
// tool request.
func parseToolArguments(request mcp.CallToolRequest) (map[string]interface{}, *mcp.CallToolResult) {
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, mcp.NewToolResultError("invalid arguments format")
	}
	return argsMap, nil
}

// marshalToolResponse marshals response to JSON and wraps it as a tool
// result text payload.
func marshalToolResponse(response interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func errString(argsMap map[string]interface{}, key string) (string, bool) {
	v, ok := argsMap[key].(string)
	return v, ok
}

func optString(argsMap map[string]interface{}, key string) string {
	v, _ := argsMap[key].(string)
	return v
}

func optInt(argsMap map[string]interface{}, key string, fallback int) int {
	if n, ok := argsMap[key].(float64); ok {
		return int(n)
	}
	return fallback
}

func optBool(argsMap map[string]interface{}, key string) bool {
	b, _ := argsMap[key].(bool)
	return b
}

// errMissing reports a required argument absent from a tool call.
func errMissing(name string) error {
	return fmt.Errorf("missing required argument: %s", name)
}

// toolErrorResult renders err as the same {"error": "..."} envelope the
// CLI's errorEnvelope produces, marked as an MCP error result so clients
// distinguish it from a successful empty answer.
func toolErrorResult(err error) *mcp.CallToolResult {
	b, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(string(b))
}

// errIndexMissing is returned by any tool (query or edit) invoked before
// an index exists; the tool server never triggers indexing itself.
var errIndexMissing = fmt.Errorf("index not found, run 'rlm index' first before using MCP tools")

// ensureEngine opens the index database for projectRoot and wraps it in a
// query Engine. Unlike the CLI's EnsureIndex, this never triggers a full
// index run: a missing index is reported back to the caller as an error
// naming the fix, matching ensure_db's explicit no-auto-index contract.
func ensureEngine(projectRoot string) (*query.Engine, *storage.DB, error) {
	cfg := config.New(projectRoot)
	if !cfg.IndexExists() {
		return nil, nil, errIndexMissing
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("database error: %w", err)
	}
	return query.New(db, cfg), db, nil
}
