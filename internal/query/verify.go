package query

import (
	"os"
	"path/filepath"

	"github.com/mvp-joe/rlm/internal/rlmerr"
)

// VerifyResult is the verify operation's full output: the storage
// integrity report plus any indexed file whose path no longer exists on
// disk.
type VerifyResult struct {
	SQLiteOK     bool     `json:"ok"`
	SQLiteError  string   `json:"err,omitempty"`
	OrphanChunks int64    `json:"oc"`
	OrphanRefs   int64    `json:"or"`
	MissingFiles []string `json:"mf,omitempty"`
	Clean        bool     `json:"clean"`
}

// Verify runs the storage engine's integrity check and cross-references
// every indexed path against the current disk contents.
func (e *Engine) Verify() (*VerifyResult, error) {
	report, err := e.DB.VerifyIntegrity()
	if err != nil {
		return nil, err
	}

	files, err := e.DB.GetAllFiles()
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, f := range files {
		abs := filepath.Join(e.Cfg.ProjectRoot, f.Path)
		if _, statErr := os.Stat(abs); os.IsNotExist(statErr) {
			missing = append(missing, f.Path)
		}
	}

	result := &VerifyResult{
		SQLiteOK:     report.SQLiteOK,
		SQLiteError:  report.SQLiteError,
		OrphanChunks: report.OrphanChunks,
		OrphanRefs:   report.OrphanRefs,
		MissingFiles: missing,
	}
	result.Clean = result.SQLiteOK && result.OrphanChunks == 0 && result.OrphanRefs == 0 && len(missing) == 0
	return result, nil
}

// FixResult is the fix operation's full output: what verify --fix cleaned up.
type FixResult struct {
	OrphanChunksDeleted int64    `json:"ocd"`
	OrphanRefsDeleted   int64    `json:"ord"`
	MissingFilesDeleted []string `json:"mfd,omitempty"`
}

// Fix deletes orphan refs and chunks, then deletes the file record for
// every indexed path missing from disk. Every storage error propagates to
// the caller rather than being silently swallowed — an earlier MCP-only
// version of this behavior dropped file-removal errors via a boolean
// fallback, which this operation must not repeat.
func (e *Engine) Fix() (*FixResult, error) {
	chunksDeleted, refsDeleted, err := e.DB.FixOrphans()
	if err != nil {
		return nil, err
	}

	files, err := e.DB.GetAllFiles()
	if err != nil {
		return nil, err
	}

	var deletedPaths []string
	for _, f := range files {
		abs := filepath.Join(e.Cfg.ProjectRoot, f.Path)
		if _, statErr := os.Stat(abs); !os.IsNotExist(statErr) {
			continue
		}
		if err := e.DB.DeleteFile(f.ID); err != nil {
			return nil, rlmerr.Wrap(rlmerr.Storage, f.Path, err)
		}
		deletedPaths = append(deletedPaths, f.Path)
	}

	return &FixResult{
		OrphanChunksDeleted: chunksDeleted,
		OrphanRefsDeleted:   refsDeleted,
		MissingFilesDeleted: deletedPaths,
	}, nil
}
