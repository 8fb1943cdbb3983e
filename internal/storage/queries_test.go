package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/rlm/internal/model"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleFile(path string) *model.FileRecord {
	return &model.FileRecord{Path: path, Hash: "hash1", Lang: "rust", SizeBytes: 100}
}

func sampleChunk(fileID int64) *model.Chunk {
	return &model.Chunk{
		FileID:    fileID,
		StartLine: 1,
		EndLine:   5,
		StartByte: 0,
		EndByte:   50,
		Kind:      model.KindFunction,
		Ident:     "sample_fn",
		Content:   "fn sample_fn() {}",
	}
}

func TestUpsertFileInsertsThenUpdates(t *testing.T) {
	db := testDB(t)

	id1, err := db.UpsertFile(sampleFile("src/lib.rs"))
	require.NoError(t, err)
	assert.NotZero(t, id1)

	changed := sampleFile("src/lib.rs")
	changed.Hash = "hash2"
	id2, err := db.UpsertFile(changed)
	require.NoError(t, err)
	assert.Equal(t, id1, id2, "upsert by path must reuse the same id")

	got, err := db.GetFileByPath("src/lib.rs")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "hash2", got.Hash)
}

func TestGetFileByPathMissingReturnsNil(t *testing.T) {
	db := testDB(t)
	got, err := db.GetFileByPath("nope.rs")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInsertChunkAndRetrieve(t *testing.T) {
	db := testDB(t)
	fileID, err := db.UpsertFile(sampleFile("src/lib.rs"))
	require.NoError(t, err)

	chunkID, err := db.InsertChunk(sampleChunk(fileID))
	require.NoError(t, err)
	assert.NotZero(t, chunkID)

	chunks, err := db.GetChunksForFile(fileID)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "sample_fn", chunks[0].Ident)
	assert.Equal(t, model.KindFunction, chunks[0].Kind)
}

func TestGetChunksForFileOrderedByStartLine(t *testing.T) {
	db := testDB(t)
	fileID, err := db.UpsertFile(sampleFile("src/lib.rs"))
	require.NoError(t, err)

	late := sampleChunk(fileID)
	late.StartLine, late.EndLine, late.Ident = 20, 25, "late_fn"
	early := sampleChunk(fileID)
	early.StartLine, early.EndLine, early.Ident = 1, 5, "early_fn"

	_, err = db.InsertChunk(late)
	require.NoError(t, err)
	_, err = db.InsertChunk(early)
	require.NoError(t, err)

	chunks, err := db.GetChunksForFile(fileID)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "early_fn", chunks[0].Ident)
	assert.Equal(t, "late_fn", chunks[1].Ident)
}

func TestDeleteFileCascadesChunksAndRefs(t *testing.T) {
	db := testDB(t)
	fileID, err := db.UpsertFile(sampleFile("src/lib.rs"))
	require.NoError(t, err)

	chunkID, err := db.InsertChunk(sampleChunk(fileID))
	require.NoError(t, err)
	_, err = db.InsertRef(&model.Reference{ChunkID: chunkID, TargetIdent: "foo", RefKind: model.RefCall, Line: 1, Col: 0})
	require.NoError(t, err)

	require.NoError(t, db.DeleteFile(fileID))

	chunks, err := db.GetAllChunks()
	require.NoError(t, err)
	assert.Empty(t, chunks)

	refs, err := db.GetRefsFromChunk(chunkID)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestInsertRefAndFindByTarget(t *testing.T) {
	db := testDB(t)
	fileID, err := db.UpsertFile(sampleFile("src/lib.rs"))
	require.NoError(t, err)
	chunkID, err := db.InsertChunk(sampleChunk(fileID))
	require.NoError(t, err)

	_, err = db.InsertRef(&model.Reference{ChunkID: chunkID, TargetIdent: "helper", RefKind: model.RefCall, Line: 2, Col: 4})
	require.NoError(t, err)

	refs, err := db.GetRefsTo("helper")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, chunkID, refs[0].ChunkID)
}

func TestSearchFTSByIdent(t *testing.T) {
	db := testDB(t)
	fileID, err := db.UpsertFile(sampleFile("src/lib.rs"))
	require.NoError(t, err)
	chunk := sampleChunk(fileID)
	chunkID, err := db.InsertChunk(chunk)
	require.NoError(t, err)

	results, err := db.SearchFTS("sample_fn", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, chunkID, results[0].ID)
}

func TestSearchFTSNoResults(t *testing.T) {
	db := testDB(t)
	results, err := db.SearchFTS("nonexistent_xyz_123", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGetStats(t *testing.T) {
	db := testDB(t)
	fileID, err := db.UpsertFile(sampleFile("src/lib.rs"))
	require.NoError(t, err)
	_, err = db.InsertChunk(sampleChunk(fileID))
	require.NoError(t, err)

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.FileCount)
	assert.Equal(t, int64(1), stats.ChunkCount)
	require.Len(t, stats.Languages, 1)
	assert.Equal(t, "rust", stats.Languages[0].Lang)
}

func TestVerifyIntegrityClean(t *testing.T) {
	db := testDB(t)
	fileID, err := db.UpsertFile(sampleFile("src/lib.rs"))
	require.NoError(t, err)
	_, err = db.InsertChunk(sampleChunk(fileID))
	require.NoError(t, err)

	report, err := db.VerifyIntegrity()
	require.NoError(t, err)
	assert.True(t, report.SQLiteOK)
	assert.Zero(t, report.OrphanChunks)
	assert.Zero(t, report.OrphanRefs)
}

func TestFixOrphansDeletesInSafeOrder(t *testing.T) {
	db := testDB(t)
	fileID, err := db.UpsertFile(sampleFile("src/lib.rs"))
	require.NoError(t, err)
	chunkID, err := db.InsertChunk(sampleChunk(fileID))
	require.NoError(t, err)
	_, err = db.InsertRef(&model.Reference{ChunkID: chunkID, TargetIdent: "foo", RefKind: model.RefCall, Line: 1})
	require.NoError(t, err)

	// Simulate corruption: drop the owning chunk directly, bypassing the FK cascade.
	_, err = db.conn.Exec("PRAGMA foreign_keys = OFF")
	require.NoError(t, err)
	_, err = db.conn.Exec("DELETE FROM chunks WHERE id = ?", chunkID)
	require.NoError(t, err)
	_, err = db.conn.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	report, err := db.VerifyIntegrity()
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.OrphanRefs)

	chunksDeleted, refsDeleted, err := db.FixOrphans()
	require.NoError(t, err)
	assert.Zero(t, chunksDeleted)
	assert.Equal(t, int64(1), refsDeleted)
}

func TestGetFilesWithQualityIssues(t *testing.T) {
	db := testDB(t)
	id, err := db.UpsertFile(sampleFile("broken.rs"))
	require.NoError(t, err)
	require.NoError(t, db.SetFileParseQuality(id, "partial"))

	_, err = db.UpsertFile(sampleFile("clean.rs"))
	require.NoError(t, err)

	files, err := db.GetFilesWithQualityIssues()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "broken.rs", files[0].Path)
}
