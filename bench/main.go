package main

import (
	"bytes"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"pagedb"
)

func main() {
	var (
		numPages   = flag.Int("pages", 4096, "pages in the benchmark file")
		poolSize   = flag.Int("pool", 64, "buffer pool frames")
		recordSize = flag.Int("record", 100, "record size in bytes")
		ops        = flag.Int("ops", 200_000, "random page updates after the load phase")
	)
	flag.Parse()

	dir, err := os.MkdirTemp("", "pagedb-bench")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "bench.db")

	db := pagedb.Open(pagedb.WithPoolSize(*poolSize), pagedb.WithSyncMode(pagedb.SyncOff))
	defer db.Close()
	if err := db.CreateFile(path, *numPages); err != nil {
		panic(err)
	}

	fmt.Printf("Pages: %d, Pool: %d frames, Record: %d bytes, Ops: %d\n\n",
		*numPages, *poolSize, *recordSize, *ops)

	record := bytes.Repeat([]byte{0xab}, *recordSize)

	// Load: fill every page with records.
	start := time.Now()
	records := 0
	for i := 0; i < *numPages; i++ {
		id, p, err := db.NewPage(1, path)
		if err != nil {
			panic(err)
		}
		sp := pagedb.NewSlottedPage(p, id)
		sp.Init()
		for {
			if _, err := sp.InsertRecord(record); err != nil {
				break
			}
			records++
		}
		if err := db.UnpinPage(id, path, true); err != nil {
			panic(err)
		}
	}
	elapsed := time.Since(start).Seconds()
	fmt.Printf("Load:    %d pages, %d records in %.2fs (%.0f pages/s)\n",
		*numPages, records, elapsed, float64(*numPages)/elapsed)

	// Churn: delete and reinsert one record on random pages.
	start = time.Now()
	lastPrint := start
	for i := 0; i < *ops; i++ {
		id := pagedb.PageID(rand.Intn(*numPages))
		err := db.Update(path, id, func(p *pagedb.Page) error {
			sp := pagedb.NewSlottedPage(p, id)
			rid, ok := sp.FirstRecord()
			if !ok {
				return nil
			}
			sp.DeleteRecord(rid)
			_, err := sp.InsertRecord(record)
			return err
		})
		if err != nil {
			panic(err)
		}

		now := time.Now()
		if now.Sub(lastPrint) >= time.Second {
			fmt.Printf("\rOps: %d (%.0f ops/s)", i, float64(i)/now.Sub(start).Seconds())
			lastPrint = now
		}
	}
	elapsed = time.Since(start).Seconds()

	stats := db.Stats()
	hitRate := float64(stats.Hits) / float64(max(stats.Hits+stats.Misses, 1))

	fmt.Printf("\n\nCompleted:\n")
	fmt.Printf("  Time:      %.2fs (%.0f ops/s)\n", elapsed, float64(*ops)/elapsed)
	fmt.Printf("  Hit rate:  %.1f%%\n", hitRate*100)
	fmt.Printf("  Evictions: %d\n", stats.Evictions)
	fmt.Printf("  Reads:     %d\n", stats.Reads)
	fmt.Printf("  Writes:    %d\n", stats.Writes)
}
