package pagedb

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to create a temporary database with one paged file
func setup(t *testing.T, options ...Option) (*DB, string) {
	t.Helper()

	db := Open(options...)
	name := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, db.CreateFile(name, 16), "Failed to create file")

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, name
}

func TestSlottedRecordsThroughPool(t *testing.T) {
	t.Parallel()

	db, name := setup(t, WithPoolSize(2))

	id, p, err := db.NewPage(1, name)
	require.NoError(t, err)
	require.NotNil(t, p)

	sp := NewSlottedPage(p, id)
	sp.Init()
	r1, err := sp.InsertRecord(bytes.Repeat([]byte{1}, 500))
	require.NoError(t, err)
	r2, err := sp.InsertRecord(bytes.Repeat([]byte{2}, 492))
	require.NoError(t, err)
	assert.Equal(t, 7, sp.AvailableSpace())
	require.NoError(t, db.UnpinPage(id, name, true))

	// Push the page out of the pool.
	for i := 0; i < 2; i++ {
		other, _, err := db.NewPage(1, name)
		require.NoError(t, err)
		require.NoError(t, db.UnpinPage(other, name, false))
	}
	assert.Equal(t, -1, db.FindFrame(id, name))

	err = db.Update(name, id, func(p *Page) error {
		sp := NewSlottedPage(p, id)
		require.True(t, sp.DeleteRecord(r2))
		rid, err := sp.InsertRecord(bytes.Repeat([]byte{3}, 492))
		if err != nil {
			return err
		}
		assert.Equal(t, r2, rid)
		return nil
	})
	require.NoError(t, err)

	err = db.View(name, id, func(p *Page) error {
		sp := NewSlottedPage(p, id)
		rec, err := sp.Record(r1)
		require.NoError(t, err)
		assert.Equal(t, bytes.Repeat([]byte{1}, 500), rec)

		rec, err = sp.Record(r2)
		require.NoError(t, err)
		assert.Equal(t, bytes.Repeat([]byte{3}, 492), rec)
		return nil
	})
	require.NoError(t, err)
}

func TestUpdateErrorLeavesPageClean(t *testing.T) {
	t.Parallel()

	db, name := setup(t)

	id, _, err := db.NewPage(1, name)
	require.NoError(t, err)
	require.NoError(t, db.UnpinPage(id, name, false))

	boom := errors.New("boom")
	err = db.Update(name, id, func(p *Page) error {
		p.Data[0] = 1
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, db.Stats().Dirty)
	assert.Equal(t, 0, db.Stats().Pinned)
}

func TestUpdatePoolFull(t *testing.T) {
	t.Parallel()

	db, name := setup(t, WithPoolSize(1))

	id, p, err := db.NewPage(2, name)
	require.NoError(t, err)
	require.NotNil(t, p)

	err = db.View(name, id+1, func(*Page) error { return nil })
	assert.ErrorIs(t, err, ErrPoolFull)
	require.NoError(t, db.UnpinPage(id, name, false))
}

func TestErrorsAreExported(t *testing.T) {
	t.Parallel()

	db, name := setup(t)

	_, _, err := db.NewPage(17, name)
	assert.ErrorIs(t, err, ErrFileFull)
	assert.ErrorIs(t, db.UnpinPage(3, name, false), ErrPageNotPinned)

	_, err = db.PinPage(5, name, false)
	assert.ErrorIs(t, err, ErrPageNotAllocated)
}

func TestClose(t *testing.T) {
	t.Parallel()

	db := Open(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), WithSyncMode(SyncOff))
	name := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, db.CreateFile(name, 4))

	id, p, err := db.NewPage(1, name)
	require.NoError(t, err)
	copy(p.Data[:], "closing")
	require.NoError(t, db.UnpinPage(id, name, true))
	require.NoError(t, db.Close())

	assert.ErrorIs(t, db.Close(), ErrDatabaseClosed)
	_, err = db.PinPage(id, name, false)
	assert.ErrorIs(t, err, ErrDatabaseClosed)
	assert.ErrorIs(t, db.FlushAllPages(), ErrDatabaseClosed)

	db = Open()
	defer db.Close()
	err = db.View(name, id, func(p *Page) error {
		assert.Equal(t, []byte("closing"), p.Data[:7])
		return nil
	})
	require.NoError(t, err)
}

func TestEraseFile(t *testing.T) {
	t.Parallel()

	db, name := setup(t)

	require.NoError(t, db.EraseFile(name))
	_, err := db.PinPage(0, name, false)
	assert.Error(t, err)
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	db := Open()
	defer db.Close()
	assert.Equal(t, 64, db.PoolSize())

	small := Open(WithPoolSize(4), WithMaxOpenFiles(2))
	defer small.Close()
	assert.Equal(t, 4, small.PoolSize())
}
