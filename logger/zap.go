package logger

import (
	"go.uber.org/zap"

	"pagedb"
)

var _ pagedb.Logger = (*Zap)(nil)

// Zap adapts a zap.Logger to pagedb.Logger. Key-value args are passed to
// zap's sugared logger, so zap.Field values work as args too.
type Zap struct {
	logger *zap.SugaredLogger
}

// NewZap creates a pagedb.Logger from a zap.Logger.
func NewZap(logger *zap.Logger) *Zap {
	return &Zap{logger: logger.Sugar()}
}

// With returns a logger that adds the key-value pairs to every entry, e.g.
// the file a pool or tool is working on.
func (z *Zap) With(args ...any) *Zap {
	return &Zap{logger: z.logger.With(args...)}
}

func (z *Zap) Error(msg string, args ...any) {
	z.logger.Errorw(msg, args...)
}

func (z *Zap) Warn(msg string, args ...any) {
	z.logger.Warnw(msg, args...)
}

func (z *Zap) Info(msg string, args ...any) {
	z.logger.Infow(msg, args...)
}
