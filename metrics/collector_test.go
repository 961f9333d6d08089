package metrics

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagedb"
)

type fixedStats pagedb.Stats

func (f fixedStats) Stats() pagedb.Stats { return pagedb.Stats(f) }

func TestCollect(t *testing.T) {
	t.Parallel()

	c := NewCollector(fixedStats{
		Hits: 5, Misses: 3, Evictions: 1, Reads: 2, Writes: 4, BytesRead: 2048, BytesWritten: 4096,
		PoolSize: 8, Resident: 3, Pinned: 1, Dirty: 2,
	}, "pagedb")

	want := `
# HELP pagedb_buffer_pool_hits_total Pins served from a resident frame.
# TYPE pagedb_buffer_pool_hits_total counter
pagedb_buffer_pool_hits_total 5
# HELP pagedb_buffer_pool_evictions_total Pages evicted by the clock sweep.
# TYPE pagedb_buffer_pool_evictions_total counter
pagedb_buffer_pool_evictions_total 1
# HELP pagedb_buffer_pool_written_bytes_total Bytes written to paged files.
# TYPE pagedb_buffer_pool_written_bytes_total counter
pagedb_buffer_pool_written_bytes_total 4096
# HELP pagedb_buffer_pool_frames Frames by state.
# TYPE pagedb_buffer_pool_frames gauge
pagedb_buffer_pool_frames{state="dirty"} 2
pagedb_buffer_pool_frames{state="pinned"} 1
pagedb_buffer_pool_frames{state="resident"} 3
pagedb_buffer_pool_frames{state="total"} 8
`
	err := testutil.CollectAndCompare(c, strings.NewReader(want),
		"pagedb_buffer_pool_hits_total",
		"pagedb_buffer_pool_evictions_total",
		"pagedb_buffer_pool_written_bytes_total",
		"pagedb_buffer_pool_frames",
	)
	require.NoError(t, err)
	assert.Equal(t, 11, testutil.CollectAndCount(c))
}

func TestCollectFromDB(t *testing.T) {
	t.Parallel()

	db := pagedb.Open(pagedb.WithPoolSize(2))
	defer db.Close()
	name := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, db.CreateFile(name, 4))

	id, _, err := db.NewPage(1, name)
	require.NoError(t, err)
	require.NoError(t, db.UnpinPage(id, name, true))
	require.NoError(t, db.FlushPage(id, name))

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewCollector(db, "")))

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				values[mf.GetName()] = m.GetCounter().GetValue()
			case len(m.GetLabel()) == 1:
				values[mf.GetName()+"/"+m.GetLabel()[0].GetValue()] = m.GetGauge().GetValue()
			}
		}
	}

	assert.Equal(t, 1.0, values["buffer_pool_misses_total"])
	assert.Equal(t, 1.0, values["buffer_pool_page_writes_total"])
	assert.Equal(t, float64(pagedb.PageSize), values["buffer_pool_written_bytes_total"])
	assert.Equal(t, 2.0, values["buffer_pool_frames/total"])
	assert.Equal(t, 1.0, values["buffer_pool_frames/resident"])
	assert.Equal(t, 0.0, values["buffer_pool_frames/dirty"])
}
