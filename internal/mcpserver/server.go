// Package mcpserver exposes every query and edit operation as an MCP tool
// over stdio transport, the same role an internal/mcp/server.go style
// component plays elsewhere, rehomed around a single project root instead
// of a chunk manager and multiple searchers.
//
// Unlike a design that holds long-lived searcher/watcher handles for the
// life of the process, and unlike this project's own CLI (which
// auto-indexes), the MCP server here does NOT auto-index: the database is opened
// fresh on each tool call and closed before the call returns, and a missing
// index is reported as an actionable error rather than triggered silently,
// since a multi-gigabyte repo's first index can take long enough to look
// like a hung tool call to an agent.
package mcpserver

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/rlm/internal/config"
	"github.com/mvp-joe/rlm/internal/query"
)

// Server holds only the project root; it opens the storage engine fresh for
// every tool invocation rather than keeping a connection alive across calls.
type Server struct {
	projectRoot string
	mcp         *server.MCPServer
}

// New constructs a Server rooted at projectRoot and registers every tool.
func New(projectRoot string) *Server {
	s := &Server{projectRoot: projectRoot}

	mcpServer := server.NewMCPServer(
		"rlm-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(instructions),
	)

	s.registerTools(mcpServer)
	s.mcp = mcpServer
	return s
}

// registerTools wires every query operation and edit operation as a
// named tool. Splitting the call across two files keeps the
// read-only query surface (tools_query.go) separate from the two
// syntax-gated writers (tools_edit.go), mirroring this package's own
// read/write boundary.
func (s *Server) registerTools(mcpServer *server.MCPServer) {
	s.registerQueryTools(mcpServer)
	s.registerEditTools(mcpServer)
}

// withEngine adapts a query.Engine-based handler into an MCP tool
// handler: it opens a fresh storage handle for s.projectRoot (erroring
// with an actionable message if the index is absent, never auto-indexing),
// runs fn, closes the handle, and marshals the result or renders the
// error envelope.
func (s *Server) withEngine(fn func(e *query.Engine, args map[string]interface{}) (interface{}, error)) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		callID := uuid.NewString()
		log.Printf("tool call %s: %s", callID, request.Params.Name)

		args, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}

		e, db, err := ensureEngine(s.projectRoot)
		if err != nil {
			log.Printf("tool call %s: %v", callID, err)
			return toolErrorResult(err), nil
		}
		defer db.Close()

		result, err := fn(e, args)
		if err != nil {
			log.Printf("tool call %s: %v", callID, err)
			return toolErrorResult(err), nil
		}
		return marshalToolResponse(result)
	}
}

// instructions documents the progressive-disclosure hierarchy the tool
// surface is built around, plus the fallback_recommended signal a caller
// must watch for on partial parses.
const instructions = "rlm: a code context broker for semantic code exploration. " +
	"Use progressive disclosure: peek -> grep -> map -> tree -> search -> read. " +
	"For code intelligence: refs, signature, callgraph, impact, context, deps, scope, type_info, patterns. " +
	"For editing: replace (swap an AST node by symbol name) and insert (add code at a position). " +
	"Both validate syntax before writing and re-index automatically afterward. " +
	"Indexing respects .gitignore and excludes hidden files and common build directories. " +
	"Most tools only show files with a supported, indexed language; use 'files' to see every file " +
	"on disk including skipped ones, and files(skipped_only=true) to see only those. " +
	"Check the 'q'/'fallback_recommended' field on results: when true, the underlying file has syntax " +
	"the parser could not fully resolve (for example Java records or Python match statements), and " +
	"'read' with a line range or 'grep' is more reliable than AST-based commands for the affected lines. " +
	"The index is not built automatically by this server; run the index command first."

// config builds a fresh Config rooted at s.projectRoot.
func (s *Server) config() *config.Config {
	return config.New(s.projectRoot)
}

// Serve runs the MCP server on stdio transport until a shutdown signal or
// fatal transport error arrives.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("starting rlm MCP server on stdio")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("mcp server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("received shutdown signal, stopping")
		cancel()
		return nil
	case err := <-errCh:
		cancel()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
