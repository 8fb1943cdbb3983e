package mcpserver

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/rlm/internal/config"
	"github.com/mvp-joe/rlm/internal/edit"
	"github.com/mvp-joe/rlm/internal/storage"
)

// registerEditTools wires the two syntax-gated write operations as tools.
// These open the storage handle with the same storage.Open the query tools
// use, but call the edit package directly rather than going through
// query.Engine, since replace/insert own the index-mutation path (they
// re-index the affected file themselves after a successful write).
func (s *Server) registerEditTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(mcp.NewTool("replace",
		mcp.WithDescription("Replace a named symbol's source with new code. Validates the result parses before writing; preview=true returns a diff without writing. Re-indexes the file automatically on a real write."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Project-relative file path")),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("The chunk identifier to replace")),
		mcp.WithString("code", mcp.Required(), mcp.Description("The replacement source text")),
		mcp.WithBoolean("preview", mcp.Description("Return a diff without writing (default false)")),
	), s.withEdit(func(cfg *config.Config, db *storage.DB, args map[string]interface{}) (interface{}, error) {
		path, ok := errString(args, "path")
		if !ok || path == "" {
			return nil, errMissing("path")
		}
		symbol, ok := errString(args, "symbol")
		if !ok || symbol == "" {
			return nil, errMissing("symbol")
		}
		code, ok := errString(args, "code")
		if !ok {
			return nil, errMissing("code")
		}
		return edit.Replace(cfg, db, path, symbol, code, optBool(args, "preview"))
	}))

	mcpServer.AddTool(mcp.NewTool("insert",
		mcp.WithDescription(`Insert code at a position: "top", "bottom", "before:N", or "after:N" (N is a 1-based line number). Validates the result parses before writing, then re-indexes the file.`),
		mcp.WithString("path", mcp.Required(), mcp.Description("Project-relative file path")),
		mcp.WithString("position", mcp.Required(), mcp.Description(`"top", "bottom", "before:N", or "after:N"`)),
		mcp.WithString("code", mcp.Required(), mcp.Description("The source text to insert")),
	), s.withEdit(func(cfg *config.Config, db *storage.DB, args map[string]interface{}) (interface{}, error) {
		path, ok := errString(args, "path")
		if !ok || path == "" {
			return nil, errMissing("path")
		}
		posStr, ok := errString(args, "position")
		if !ok || posStr == "" {
			return nil, errMissing("position")
		}
		code, ok := errString(args, "code")
		if !ok {
			return nil, errMissing("code")
		}
		pos, err := edit.ParsePosition(posStr)
		if err != nil {
			return nil, err
		}
		return edit.Insert(cfg, db, path, pos, code)
	}))
}

// withEdit is withEngine's counterpart for the write tools: it opens a
// fresh read-write storage handle rooted at s.projectRoot (erroring if the
// index is absent, same no-auto-index contract as withEngine) and hands
// the caller both the Config and the DB, since edit.Replace/edit.Insert
// need the project root for on-disk paths alongside the open database.
func (s *Server) withEdit(fn func(cfg *config.Config, db *storage.DB, args map[string]interface{}) (interface{}, error)) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		callID := uuid.NewString()
		log.Printf("tool call %s: %s", callID, request.Params.Name)

		args, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}

		cfg := s.config()
		if !cfg.IndexExists() {
			log.Printf("tool call %s: %v", callID, errIndexMissing)
			return toolErrorResult(errIndexMissing), nil
		}
		db, err := storage.Open(cfg.DBPath)
		if err != nil {
			log.Printf("tool call %s: %v", callID, err)
			return toolErrorResult(err), nil
		}
		defer db.Close()

		result, err := fn(cfg, db, args)
		if err != nil {
			log.Printf("tool call %s: %v", callID, err)
			return toolErrorResult(err), nil
		}
		return marshalToolResponse(result)
	}
}
