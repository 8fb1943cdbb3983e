package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/rlm/internal/query"
)

// registerQueryTools wires every read-only query operation as a tool, each
// opening and closing its own storage handle per call.
func (s *Server) registerQueryTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(mcp.NewTool("peek",
		mcp.WithDescription("Quick structure preview: symbols with kind and line counts, no content. The cheapest orientation call."),
		mcp.WithString("path", mcp.Description("Optional path prefix filter")),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		return e.Peek(optString(args, "path"))
	}))

	mcpServer.AddTool(mcp.NewTool("grep",
		mcp.WithDescription("Regex search across indexed file contents. Returns matching lines with optional surrounding context."),
		mcp.WithString("pattern", mcp.Required(), mcp.Description("Regular expression to search for")),
		mcp.WithNumber("context", mcp.Description("Lines of context before/after each match (default 0)")),
		mcp.WithString("path", mcp.Description("Optional path prefix filter")),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		pattern, ok := errString(args, "pattern")
		if !ok || pattern == "" {
			return nil, errMissing("pattern")
		}
		return e.Grep(pattern, optInt(args, "context", 0), optString(args, "path"))
	}))

	mcpServer.AddTool(mcp.NewTool("map",
		mcp.WithDescription("Project overview: per file, language, line count, public symbols, and a brief description. One-call orientation."),
		mcp.WithString("path", mcp.Description("Optional path prefix filter")),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		return e.Map(optString(args, "path"))
	}))

	mcpServer.AddTool(mcp.NewTool("tree",
		mcp.WithDescription("Folder structure annotated with the symbols each file contains."),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		return e.Tree()
	}))

	mcpServer.AddTool(mcp.NewTool("search",
		mcp.WithDescription("Full-text search across indexed chunks (symbols and content). Returns matching chunks with content."),
		mcp.WithString("query", mcp.Required(), mcp.Description("FTS5 query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum results to return (default 20)")),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		q, ok := errString(args, "query")
		if !ok || q == "" {
			return nil, errMissing("query")
		}
		return e.Search(q, optInt(args, "limit", 20))
	}))

	mcpServer.AddTool(mcp.NewTool("read",
		mcp.WithDescription("Read file content: full file, a named symbol, a markdown section, or a 1-based START-END line range."),
		mcp.WithString("path", mcp.Required(), mcp.Description("File path relative to the project root")),
		mcp.WithString("selector", mcp.Description("Symbol name, section heading, or START-END line range; omit for the whole file")),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		path, ok := errString(args, "path")
		if !ok || path == "" {
			return nil, errMissing("path")
		}
		return e.Read(path, optString(args, "selector"))
	}))

	mcpServer.AddTool(mcp.NewTool("refs",
		mcp.WithDescription("Find every usage/call site of a symbol across the codebase, with reference kind (call, import, type_use)."),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Identifier to search for")),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		sym, ok := errString(args, "symbol")
		if !ok || sym == "" {
			return nil, errMissing("symbol")
		}
		return e.Refs(sym)
	}))

	mcpServer.AddTool(mcp.NewTool("signature",
		mcp.WithDescription("Signature of a symbol plus its total call-site count. Useful before refactoring."),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Identifier to look up")),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		sym, ok := errString(args, "symbol")
		if !ok || sym == "" {
			return nil, errMissing("symbol")
		}
		return e.Signature(sym)
	}))

	mcpServer.AddTool(mcp.NewTool("callgraph",
		mcp.WithDescription("Direct callers and callees of a symbol, as directed graph edges by identifier."),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Identifier to build the call graph around")),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		sym, ok := errString(args, "symbol")
		if !ok || sym == "" {
			return nil, errMissing("symbol")
		}
		return e.Callgraph(sym)
	}))

	mcpServer.AddTool(mcp.NewTool("path",
		mcp.WithDescription("Shortest call chain between two identifiers, inclusive of both endpoints."),
		mcp.WithString("from", mcp.Required(), mcp.Description("Starting identifier")),
		mcp.WithString("to", mcp.Required(), mcp.Description("Target identifier")),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		from, ok1 := errString(args, "from")
		to, ok2 := errString(args, "to")
		if !ok1 || from == "" {
			return nil, errMissing("from")
		}
		if !ok2 || to == "" {
			return nil, errMissing("to")
		}
		return e.Path(from, to)
	}))

	mcpServer.AddTool(mcp.NewTool("impact",
		mcp.WithDescription("Every location that would need updating if a symbol changes: file, containing symbol, line, reference kind."),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Identifier to analyze")),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		sym, ok := errString(args, "symbol")
		if !ok || sym == "" {
			return nil, errMissing("symbol")
		}
		return e.Impact(sym)
	}))

	mcpServer.AddTool(mcp.NewTool("context",
		mcp.WithDescription("Complete understanding of a symbol in one call: body content, signature, caller count, callee names."),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Identifier to build context for")),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		sym, ok := errString(args, "symbol")
		if !ok || sym == "" {
			return nil, errMissing("symbol")
		}
		return e.Context(sym)
	}))

	mcpServer.AddTool(mcp.NewTool("deps",
		mcp.WithDescription("Lists every import/use declaration found in a file."),
		mcp.WithString("path", mcp.Required(), mcp.Description("File path relative to the project root")),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		path, ok := errString(args, "path")
		if !ok || path == "" {
			return nil, errMissing("path")
		}
		return e.Deps(path)
	}))

	mcpServer.AddTool(mcp.NewTool("scope",
		mcp.WithDescription("Symbols visible at a specific line in a file: containing scopes and everything defined above that line."),
		mcp.WithString("path", mcp.Required(), mcp.Description("File path relative to the project root")),
		mcp.WithNumber("line", mcp.Required(), mcp.Description("1-based line number")),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		path, ok := errString(args, "path")
		if !ok || path == "" {
			return nil, errMissing("path")
		}
		return e.Scope(path, uint32(optInt(args, "line", 0)))
	}))

	mcpServer.AddTool(mcp.NewTool("type_info",
		mcp.WithDescription("Type information for a symbol: kind (fn/struct/class/etc.), signature, and full content."),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Identifier to look up")),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		sym, ok := errString(args, "symbol")
		if !ok || sym == "" {
			return nil, errMissing("symbol")
		}
		return e.Type(sym)
	}))

	mcpServer.AddTool(mcp.NewTool("patterns",
		mcp.WithDescription("Find similar implementations in the codebase: matching symbols with kind, signature, and line count."),
		mcp.WithString("query", mcp.Required(), mcp.Description("FTS5 query string describing the pattern to match")),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		q, ok := errString(args, "query")
		if !ok || q == "" {
			return nil, errMissing("query")
		}
		return e.Patterns(q)
	}))

	mcpServer.AddTool(mcp.NewTool("diff",
		mcp.WithDescription("Compare the indexed version of a file or symbol against the current disk version; shows if content changed since the last index."),
		mcp.WithString("path", mcp.Required(), mcp.Description("File path relative to the project root")),
		mcp.WithString("symbol", mcp.Description("Optional symbol to diff instead of the whole file")),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		path, ok := errString(args, "path")
		if !ok || path == "" {
			return nil, errMissing("path")
		}
		return e.Diff(path, optString(args, "symbol"))
	}))

	mcpServer.AddTool(mcp.NewTool("summarize",
		mcp.WithDescription("Condensed summary of a file: language, line count, symbols with brief descriptions."),
		mcp.WithString("path", mcp.Required(), mcp.Description("File path relative to the project root")),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		path, ok := errString(args, "path")
		if !ok || path == "" {
			return nil, errMissing("path")
		}
		return e.Summarize(path)
	}))

	mcpServer.AddTool(mcp.NewTool("batch",
		mcp.WithDescription("Run a search query across every indexed file; results grouped by file."),
		mcp.WithString("query", mcp.Required(), mcp.Description("FTS5 query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum results per file (default 20)")),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		q, ok := errString(args, "query")
		if !ok || q == "" {
			return nil, errMissing("query")
		}
		return e.Batch(q, optInt(args, "limit", 20))
	}))

	mcpServer.AddTool(mcp.NewTool("partition",
		mcp.WithDescription("Split a file into chunks using 'semantic' (AST boundaries), 'uniform:N' (N lines each), or 'keyword:PATTERN' (regex split)."),
		mcp.WithString("path", mcp.Required(), mcp.Description("File path relative to the project root")),
		mcp.WithString("strategy", mcp.Required(), mcp.Description("semantic, uniform:N, or keyword:PATTERN")),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		path, ok := errString(args, "path")
		if !ok || path == "" {
			return nil, errMissing("path")
		}
		strategy, ok2 := errString(args, "strategy")
		if !ok2 || strategy == "" {
			return nil, errMissing("strategy")
		}
		return e.Partition(path, strategy)
	}))

	mcpServer.AddTool(mcp.NewTool("files",
		mcp.WithDescription("List ALL files in the project, indexed and skipped. Unlike map/tree/search, this also shows files with unsupported extensions. Use skipped_only to find files your other tools can't see."),
		mcp.WithString("path", mcp.Description("Optional path prefix filter")),
		mcp.WithBoolean("skipped_only", mcp.Description("Only list files present on disk but not indexed")),
		mcp.WithBoolean("indexed_only", mcp.Description("Only list files currently in the index")),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		return e.Files(query.FilesFilter{
			PathPrefix:  optString(args, "path"),
			SkippedOnly: optBool(args, "skipped_only"),
			IndexedOnly: optBool(args, "indexed_only"),
		})
	}))

	mcpServer.AddTool(mcp.NewTool("stats",
		mcp.WithDescription("Indexing statistics: file count, chunk count, reference count, total bytes, language breakdown, index age."),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		return e.Stats()
	}))

	mcpServer.AddTool(mcp.NewTool("quality",
		mcp.WithDescription("Summary of the parse-quality log: known vs unknown partial-parse issues, broken down by language and issue kind."),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		return e.Quality()
	}))

	mcpServer.AddTool(mcp.NewTool("verify",
		mcp.WithDescription("Verify index integrity: SQLite corruption, orphan chunks/refs, files that no longer exist on disk."),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		return e.Verify()
	}))

	mcpServer.AddTool(mcp.NewTool("fix",
		mcp.WithDescription("Auto-repair the integrity issues verify reports: drop orphan chunks/refs, remove entries for files missing on disk."),
	), s.withEngine(func(e *query.Engine, args map[string]interface{}) (interface{}, error) {
		return e.Fix()
	}))

	mcpServer.AddTool(mcp.NewTool("supported",
		mcp.WithDescription("List every supported file extension with its language and parser type (tree-sitter, structural, semantic, plaintext)."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		// Supported is a static table; no storage handle (or cache) needed.
		return marshalToolResponse((&query.Engine{}).Supported())
	})
}
