package storage

import (
	"database/sql"
	"time"

	"github.com/mvp-joe/rlm/internal/model"
	"github.com/mvp-joe/rlm/internal/rlmerr"
)

// UpsertFile inserts a file record or updates it by path, then re-queries
// the id. last_insert_rowid() is unreliable after ON CONFLICT DO UPDATE, so
// the id is always read back explicitly.
func (d *DB) UpsertFile(f *model.FileRecord) (int64, error) {
	now := f.IndexedAt
	if now == 0 {
		now = time.Now().Unix()
	}
	_, err := d.conn.Exec(`
		INSERT INTO files (path, hash, lang, size_bytes, indexed_at, parse_quality)
		VALUES (?, ?, ?, ?, ?, 'complete')
		ON CONFLICT(path) DO UPDATE SET
			hash = excluded.hash,
			lang = excluded.lang,
			size_bytes = excluded.size_bytes,
			indexed_at = excluded.indexed_at,
			parse_quality = 'complete'
	`, f.Path, f.Hash, f.Lang, f.SizeBytes, now)
	if err != nil {
		return 0, rlmerr.Wrap(rlmerr.Storage, f.Path, err)
	}

	var id int64
	if err := d.conn.QueryRow("SELECT id FROM files WHERE path = ?", f.Path).Scan(&id); err != nil {
		return 0, rlmerr.Wrap(rlmerr.Storage, f.Path, err)
	}
	return id, nil
}

// SetFileParseQuality updates only the parse_quality tag of a file record.
func (d *DB) SetFileParseQuality(fileID int64, quality string) error {
	_, err := d.conn.Exec("UPDATE files SET parse_quality = ? WHERE id = ?", quality, fileID)
	return rlmerr.Wrap(rlmerr.Storage, "", err)
}

func scanFileRow(row interface{ Scan(...any) error }) (*model.FileRecord, error) {
	var f model.FileRecord
	if err := row.Scan(&f.ID, &f.Path, &f.Hash, &f.Lang, &f.SizeBytes, &f.IndexedAt, &f.ParseQuality); err != nil {
		return nil, err
	}
	return &f, nil
}

const fileColumns = "id, path, hash, lang, size_bytes, indexed_at, parse_quality"

// GetFileByPath returns the file record at path, or nil if not indexed.
func (d *DB) GetFileByPath(path string) (*model.FileRecord, error) {
	row := d.conn.QueryRow("SELECT "+fileColumns+" FROM files WHERE path = ?", path)
	f, err := scanFileRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, rlmerr.Wrap(rlmerr.Storage, path, err)
	}
	return f, nil
}

// GetAllFiles returns every indexed file record.
func (d *DB) GetAllFiles() ([]*model.FileRecord, error) {
	rows, err := d.conn.Query("SELECT " + fileColumns + " FROM files ORDER BY path")
	if err != nil {
		return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
	}
	defer rows.Close()

	var out []*model.FileRecord
	for rows.Next() {
		f, err := scanFileRow(rows)
		if err != nil {
			return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
		}
		out = append(out, f)
	}
	return out, rlmerr.Wrap(rlmerr.Storage, "", rows.Err())
}

// GetAllFilePaths returns just the path column for every indexed file.
func (d *DB) GetAllFilePaths() ([]string, error) {
	rows, err := d.conn.Query("SELECT path FROM files ORDER BY path")
	if err != nil {
		return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
		}
		out = append(out, p)
	}
	return out, rlmerr.Wrap(rlmerr.Storage, "", rows.Err())
}

// DeleteFile deletes a file by id; cascades to its chunks and their refs.
func (d *DB) DeleteFile(id int64) error {
	_, err := d.conn.Exec("DELETE FROM files WHERE id = ?", id)
	return rlmerr.Wrap(rlmerr.Storage, "", err)
}

// DeleteFileByPath deletes a file by path, reporting whether a row existed.
func (d *DB) DeleteFileByPath(path string) (bool, error) {
	res, err := d.conn.Exec("DELETE FROM files WHERE path = ?", path)
	if err != nil {
		return false, rlmerr.Wrap(rlmerr.Storage, path, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, rlmerr.Wrap(rlmerr.Storage, path, err)
	}
	return n > 0, nil
}

const chunkColumns = "id, file_id, start_line, end_line, start_byte, end_byte, kind, ident, parent, signature, visibility, ui_ctx, doc_comment, attributes, content"

func scanChunkRow(row interface{ Scan(...any) error }) (*model.Chunk, error) {
	var c model.Chunk
	var kind, ident, content string
	if err := row.Scan(
		&c.ID, &c.FileID, &c.StartLine, &c.EndLine, &c.StartByte, &c.EndByte,
		&kind, &ident, &c.Parent, &c.Signature, &c.Visibility, &c.UIContext,
		&c.DocComment, &c.Attributes, &content,
	); err != nil {
		return nil, err
	}
	c.Kind = model.ChunkKind(kind)
	c.Ident = ident
	c.Content = content
	return &c, nil
}

// InsertChunk inserts a chunk and returns its assigned id. Plain INSERT, so
// last_insert_rowid() is reliable here (no ON CONFLICT involved).
func (d *DB) InsertChunk(c *model.Chunk) (int64, error) {
	res, err := d.conn.Exec(`
		INSERT INTO chunks (file_id, start_line, end_line, start_byte, end_byte, kind, ident, parent, signature, visibility, ui_ctx, doc_comment, attributes, content)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.FileID, c.StartLine, c.EndLine, c.StartByte, c.EndByte, string(c.Kind), c.Ident,
		c.Parent, c.Signature, c.Visibility, c.UIContext, c.DocComment, c.Attributes, c.Content)
	if err != nil {
		return 0, rlmerr.Wrap(rlmerr.Storage, "", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, rlmerr.Wrap(rlmerr.Storage, "", err)
	}
	return id, nil
}

// DeleteChunksForFile deletes every chunk owned by fileID; cascades to refs.
func (d *DB) DeleteChunksForFile(fileID int64) error {
	_, err := d.conn.Exec("DELETE FROM chunks WHERE file_id = ?", fileID)
	return rlmerr.Wrap(rlmerr.Storage, "", err)
}

// GetChunksForFile returns every chunk of fileID ordered by start_line.
func (d *DB) GetChunksForFile(fileID int64) ([]*model.Chunk, error) {
	rows, err := d.conn.Query("SELECT "+chunkColumns+" FROM chunks WHERE file_id = ? ORDER BY start_line", fileID)
	if err != nil {
		return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
	}
	defer rows.Close()
	return scanChunks(rows)
}

// GetChunksByIdent returns every chunk across the repository named ident.
func (d *DB) GetChunksByIdent(ident string) ([]*model.Chunk, error) {
	rows, err := d.conn.Query("SELECT "+chunkColumns+" FROM chunks WHERE ident = ?", ident)
	if err != nil {
		return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
	}
	defer rows.Close()
	return scanChunks(rows)
}

// GetChunkByID returns a single chunk, or nil if it does not exist.
func (d *DB) GetChunkByID(id int64) (*model.Chunk, error) {
	row := d.conn.QueryRow("SELECT "+chunkColumns+" FROM chunks WHERE id = ?", id)
	c, err := scanChunkRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
	}
	return c, nil
}

// GetAllChunks returns every chunk in the database.
func (d *DB) GetAllChunks() ([]*model.Chunk, error) {
	rows, err := d.conn.Query("SELECT " + chunkColumns + " FROM chunks")
	if err != nil {
		return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
	}
	defer rows.Close()
	return scanChunks(rows)
}

func scanChunks(rows *sql.Rows) ([]*model.Chunk, error) {
	var out []*model.Chunk
	for rows.Next() {
		c, err := scanChunkRow(rows)
		if err != nil {
			return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
		}
		out = append(out, c)
	}
	return out, rlmerr.Wrap(rlmerr.Storage, "", rows.Err())
}

// InsertRef inserts a reference and returns its assigned id.
func (d *DB) InsertRef(r *model.Reference) (int64, error) {
	res, err := d.conn.Exec(`
		INSERT INTO refs (chunk_id, target_ident, ref_kind, line, col)
		VALUES (?, ?, ?, ?, ?)
	`, r.ChunkID, r.TargetIdent, string(r.RefKind), r.Line, r.Col)
	if err != nil {
		return 0, rlmerr.Wrap(rlmerr.Storage, "", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, rlmerr.Wrap(rlmerr.Storage, "", err)
	}
	return id, nil
}

const refColumns = "id, chunk_id, target_ident, ref_kind, line, col"

func scanRefRow(row interface{ Scan(...any) error }) (*model.Reference, error) {
	var r model.Reference
	var kind string
	if err := row.Scan(&r.ID, &r.ChunkID, &r.TargetIdent, &kind, &r.Line, &r.Col); err != nil {
		return nil, err
	}
	r.RefKind = model.RefKind(kind)
	return &r, nil
}

// GetRefsTo returns every reference across the repository targeting ident.
func (d *DB) GetRefsTo(ident string) ([]*model.Reference, error) {
	rows, err := d.conn.Query("SELECT "+refColumns+" FROM refs WHERE target_ident = ?", ident)
	if err != nil {
		return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
	}
	defer rows.Close()
	return scanRefs(rows)
}

// GetRefsFromChunk returns every reference originating inside chunkID.
func (d *DB) GetRefsFromChunk(chunkID int64) ([]*model.Reference, error) {
	rows, err := d.conn.Query("SELECT "+refColumns+" FROM refs WHERE chunk_id = ?", chunkID)
	if err != nil {
		return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
	}
	defer rows.Close()
	return scanRefs(rows)
}

// GetRefsForFile returns every reference inside any chunk of fileID, joined
// through chunks and ordered by line.
func (d *DB) GetRefsForFile(fileID int64) ([]*model.Reference, error) {
	rows, err := d.conn.Query(`
		SELECT r.id, r.chunk_id, r.target_ident, r.ref_kind, r.line, r.col
		FROM refs r JOIN chunks c ON c.id = r.chunk_id
		WHERE c.file_id = ?
		ORDER BY r.line
	`, fileID)
	if err != nil {
		return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
	}
	defer rows.Close()
	return scanRefs(rows)
}

func scanRefs(rows *sql.Rows) ([]*model.Reference, error) {
	var out []*model.Reference
	for rows.Next() {
		r, err := scanRefRow(rows)
		if err != nil {
			return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
		}
		out = append(out, r)
	}
	return out, rlmerr.Wrap(rlmerr.Storage, "", rows.Err())
}

// Stats aggregates index-wide counts.
type Stats struct {
	FileCount    int64
	ChunkCount   int64
	RefCount     int64
	TotalBytes   int64
	Languages    []LangCount
	OldestIndexed int64
	NewestIndexed int64
}

// LangCount is a per-language file count.
type LangCount struct {
	Lang  string
	Count int64
}

// GetStats computes the aggregate counts used by the stats query operation.
func (d *DB) GetStats() (*Stats, error) {
	var s Stats
	err := d.conn.QueryRow("SELECT COUNT(*), COALESCE(SUM(size_bytes),0), COALESCE(MIN(indexed_at),0), COALESCE(MAX(indexed_at),0) FROM files").
		Scan(&s.FileCount, &s.TotalBytes, &s.OldestIndexed, &s.NewestIndexed)
	if err != nil {
		return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
	}
	if err := d.conn.QueryRow("SELECT COUNT(*) FROM chunks").Scan(&s.ChunkCount); err != nil {
		return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
	}
	if err := d.conn.QueryRow("SELECT COUNT(*) FROM refs").Scan(&s.RefCount); err != nil {
		return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
	}

	rows, err := d.conn.Query("SELECT lang, COUNT(*) FROM files GROUP BY lang ORDER BY lang")
	if err != nil {
		return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
	}
	defer rows.Close()
	for rows.Next() {
		var lc LangCount
		if err := rows.Scan(&lc.Lang, &lc.Count); err != nil {
			return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
		}
		s.Languages = append(s.Languages, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
	}
	return &s, nil
}

// GetFilesWithQualityIssues returns every file whose parse_quality is not "complete".
func (d *DB) GetFilesWithQualityIssues() ([]*model.FileRecord, error) {
	rows, err := d.conn.Query("SELECT " + fileColumns + " FROM files WHERE parse_quality != 'complete' ORDER BY path")
	if err != nil {
		return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
	}
	defer rows.Close()

	var out []*model.FileRecord
	for rows.Next() {
		f, err := scanFileRow(rows)
		if err != nil {
			return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
		}
		out = append(out, f)
	}
	return out, rlmerr.Wrap(rlmerr.Storage, "", rows.Err())
}

// VerifyReport is the result of an integrity check.
type VerifyReport struct {
	SQLiteOK         bool
	SQLiteError      string
	OrphanChunks     int64
	OrphanRefs       int64
	MissingFiles     int64
	MissingFilePaths []string
}

// IsOK reports whether the report found zero issues.
func (r *VerifyReport) IsOK() bool {
	return r.SQLiteOK && r.OrphanChunks == 0 && r.OrphanRefs == 0 && r.MissingFiles == 0
}

// VerifyIntegrity runs PRAGMA integrity_check plus orphan-row counts for
// chunks and refs.
func (d *DB) VerifyIntegrity() (*VerifyReport, error) {
	report := &VerifyReport{}

	var integrityResult string
	if err := d.conn.QueryRow("PRAGMA integrity_check").Scan(&integrityResult); err != nil {
		return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
	}
	if integrityResult == "ok" {
		report.SQLiteOK = true
	} else {
		report.SQLiteError = integrityResult
	}

	if err := d.conn.QueryRow(
		"SELECT COUNT(*) FROM chunks WHERE file_id NOT IN (SELECT id FROM files)",
	).Scan(&report.OrphanChunks); err != nil {
		return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
	}
	if err := d.conn.QueryRow(
		"SELECT COUNT(*) FROM refs WHERE chunk_id NOT IN (SELECT id FROM chunks)",
	).Scan(&report.OrphanRefs); err != nil {
		return nil, rlmerr.Wrap(rlmerr.Storage, "", err)
	}

	return report, nil
}

// FixOrphans deletes orphan refs first, then orphan chunks, so that deleting
// a chunk never creates a fresh orphan ref in the same pass.
func (d *DB) FixOrphans() (chunksDeleted, refsDeleted int64, err error) {
	res, err := d.conn.Exec("DELETE FROM refs WHERE chunk_id NOT IN (SELECT id FROM chunks)")
	if err != nil {
		return 0, 0, rlmerr.Wrap(rlmerr.Storage, "", err)
	}
	refsDeleted, err = res.RowsAffected()
	if err != nil {
		return 0, 0, rlmerr.Wrap(rlmerr.Storage, "", err)
	}

	res, err = d.conn.Exec("DELETE FROM chunks WHERE file_id NOT IN (SELECT id FROM files)")
	if err != nil {
		return 0, refsDeleted, rlmerr.Wrap(rlmerr.Storage, "", err)
	}
	chunksDeleted, err = res.RowsAffected()
	if err != nil {
		return 0, refsDeleted, rlmerr.Wrap(rlmerr.Storage, "", err)
	}

	return chunksDeleted, refsDeleted, nil
}
