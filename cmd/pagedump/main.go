// Command pagedump prints the allocation map of a paged file and, with
// -page, the slotted layout of one page.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"pagedb"
	"pagedb/internal/storage"
	"pagedb/logger"
)

func main() {
	var (
		file      = flag.String("file", "", "paged file to inspect")
		page      = flag.Int("page", -1, "page to dump as a slotted page")
		logLevel  = flag.String("log-level", "warn", "log level")
		logFormat = flag.String("log-format", "console", "log format: console or json")
	)
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(logger.Config{Level: *logLevel, Format: *logFormat, OutputFile: "stderr"})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(os.Stdout, log, *file, *page); err != nil {
		log.Error("pagedump failed", zap.String("file", *file), zap.Error(err))
		os.Exit(1)
	}
}

func run(w io.Writer, log *zap.Logger, name string, page int) error {
	if err := dumpMap(w, name); err != nil {
		return err
	}
	if page < 0 {
		return nil
	}

	db := pagedb.Open(pagedb.WithPoolSize(1), pagedb.WithSyncMode(pagedb.SyncOff), pagedb.WithLogger(logger.NewZap(log).With("tool", "pagedump")))
	defer db.Close()

	id := pagedb.PageID(page)
	return db.View(name, id, func(p *pagedb.Page) error {
		fmt.Fprintf(w, "checksum %016x\n", p.Checksum())
		return pagedb.NewSlottedPage(p, id).Dump(w)
	})
}

func dumpMap(w io.Writer, name string) error {
	f, err := storage.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	var bits strings.Builder
	for i := 0; i < f.NumPages(); i++ {
		if i > 0 && i%64 == 0 {
			bits.WriteByte('\n')
		}
		if f.IsAllocated(pagedb.PageID(i)) {
			bits.WriteByte('#')
		} else {
			bits.WriteByte('.')
		}
	}

	fmt.Fprintf(w, "%s: %d pages, %d free\n%s\n", name, f.NumPages(), f.FreePages(), bits.String())
	return nil
}
