package pagedb

import "pagedb/internal/buffer"

// SyncMode controls when flushed pages are fsynced to disk
type SyncMode = buffer.SyncMode

const (
	// SyncOnFlushAll fsyncs every flushed file at the end of FlushAllPages
	// and Close.
	// - Pages written by eviction or FlushPage reach the OS only
	// - Use for: checkpoint style durability
	SyncOnFlushAll = buffer.SyncOnFlushAll

	// SyncOff disables fsync entirely (testing/bulk loads only).
	// - All data not yet written back by the OS is lost on crash
	SyncOff = buffer.SyncOff
)

// Options configures the buffer pool.
type Options struct {
	poolSize     int      // Number of page frames.
	maxOpenFiles int      // Number of file handles kept open at once.
	syncMode     SyncMode // When flushed files are fsynced.
	logger       Logger
}

// DefaultOptions returns the default configuration.
//
//goland:noinspection GoUnusedExportedFunction
func DefaultOptions() Options {
	return Options{
		poolSize:     buffer.DefaultPoolSize,
		maxOpenFiles: buffer.DefaultMaxOpenFiles,
		syncMode:     SyncOnFlushAll,
		logger:       DiscardLogger{},
	}
}

// Option configures options using the functional options pattern.
type Option func(*Options)

// WithPoolSize sets the number of page frames. Values below one fall back to
// the default.
//
//goland:noinspection GoUnusedExportedFunction
func WithPoolSize(frames int) Option {
	return func(opts *Options) {
		opts.poolSize = frames
	}
}

// WithMaxOpenFiles bounds how many paged files are held open. Files beyond
// the limit are closed least recently used first and reopened on demand.
//
//goland:noinspection GoUnusedExportedFunction
func WithMaxOpenFiles(n int) Option {
	return func(opts *Options) {
		opts.maxOpenFiles = n
	}
}

// WithSyncMode selects when flushed files are fsynced.
//
//goland:noinspection GoUnusedExportedFunction
func WithSyncMode(mode SyncMode) Option {
	return func(opts *Options) {
		opts.syncMode = mode
	}
}

// WithLogger sets the logger. *slog.Logger works directly; see pkg logger for
// zap and logrus.
//
//goland:noinspection GoUnusedExportedFunction
func WithLogger(l Logger) Option {
	return func(opts *Options) {
		opts.logger = l
	}
}
