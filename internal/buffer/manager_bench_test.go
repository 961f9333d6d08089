package buffer

import (
	"math/rand"
	"path/filepath"
	"testing"

	"pagedb/internal/base"
)

func benchManager(b *testing.B, poolSize, numPages int) (*Manager, string) {
	b.Helper()

	m := New(Config{PoolSize: poolSize, Sync: SyncOff})
	name := filepath.Join(b.TempDir(), "bench.db")
	if err := m.CreateFile(name, numPages); err != nil {
		b.Fatal(err)
	}
	for i := 0; i < numPages; i++ {
		id, _, err := m.NewPage(1, name)
		if err != nil {
			b.Fatal(err)
		}
		if err := m.UnpinPage(id, name, true); err != nil {
			b.Fatal(err)
		}
	}
	b.Cleanup(func() { m.Close() })
	return m, name
}

func BenchmarkPinUnpinResident(b *testing.B) {
	m, name := benchManager(b, 64, 64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := base.PageID(i % 64)
		if _, err := m.PinPage(id, name, false); err != nil {
			b.Fatal(err)
		}
		if err := m.UnpinPage(id, name, false); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPinUnpinRandom(b *testing.B) {
	m, name := benchManager(b, 64, 1024)
	r := rand.New(rand.NewSource(1))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := base.PageID(r.Intn(1024))
		if _, err := m.PinPage(id, name, false); err != nil {
			b.Fatal(err)
		}
		if err := m.UnpinPage(id, name, i%4 == 0); err != nil {
			b.Fatal(err)
		}
	}
}
