package cli

import (
	"encoding/json"
	"fmt"

	"github.com/mvp-joe/rlm/internal/config"
	"github.com/mvp-joe/rlm/internal/indexer"
	"github.com/mvp-joe/rlm/internal/query"
	"github.com/mvp-joe/rlm/internal/storage"
)

// loadConfig resolves a Config rooted at the current working directory,
// the same os.Getwd()+load-from-dir shape used elsewhere in this project
// but against this project's project-local .rlm/config.toml.
func loadConfig() (*config.Config, error) {
	return config.FromCwd()
}

// openEngine ensures the index exists (auto-indexing on first use, unlike
// the tool server) and returns a query.Engine plus the open storage
// handle the caller must Close.
func openEngine(cfg *config.Config) (*query.Engine, *storage.DB, error) {
	db, err := indexer.EnsureIndex(cfg)
	if err != nil {
		return nil, nil, err
	}
	return query.New(db, cfg), db, nil
}

// printJSON serializes v as minified JSON by default, or pretty-printed
// when --pretty is set.
func printJSON(v any) error {
	var (
		b   []byte
		err error
	)
	if outputPretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

// withOpenEngine resolves the project config, ensures the index exists,
// runs fn against the resulting Engine, and prints its result as JSON.
// Every read-only query subcommand shares this shape; it is the CLI
// analogue of the tool server's per-call open/close in internal/mcpserver.
func withOpenEngine(fn func(e *query.Engine) (any, error)) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, db, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := fn(engine)
	if err != nil {
		return err
	}
	return printJSON(result)
}

// errorEnvelope renders err as the {"error": "..."} envelope shared with
// the tool server, used when printing a command's error to stderr.
func errorEnvelope(err error) string {
	b, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		return `{"error":"` + err.Error() + `"}`
	}
	return string(b)
}
