package storage

import (
	"github.com/mvp-joe/rlm/internal/model"
	"github.com/mvp-joe/rlm/internal/rlmerr"
)

const chunkColumnsAliased = "c.id, c.file_id, c.start_line, c.end_line, c.start_byte, c.end_byte, c.kind, c.ident, c.parent, c.signature, c.visibility, c.ui_ctx, c.doc_comment, c.attributes, c.content"

// SearchFTS runs a full-text query against the chunks_fts mirror and
// returns matching chunks ordered by the FTS ranker, capped at limit.
func (d *DB) SearchFTS(query string, limit int) ([]*model.Chunk, error) {
	rows, err := d.conn.Query(`
		SELECT `+chunkColumnsAliased+`
		FROM chunks_fts f
		JOIN chunks c ON c.id = f.rowid
		WHERE chunks_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
	}
	defer rows.Close()
	return scanChunks(rows)
}
