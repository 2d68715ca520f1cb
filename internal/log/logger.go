// Package log provides structured logging for gxcore using zap.
package log

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with gxcore-specific helpers.
type Logger struct {
	*zap.Logger
	onTrace func(pc uint64, category, name, detail string) // trace callback for events
}

var (
	// L is the global logger instance.
	L    *Logger
	once sync.Once
)

// Init initializes the global logger with the given configuration.
// Safe to call multiple times; only the first call takes effect.
func Init(debug bool) {
	once.Do(func() {
		L = New(debug)
	})
}

// New creates a new Logger instance.
func New(debug bool) *Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	// Shorter timestamps in development
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Fallback to no-op if config fails
		logger = zap.NewNop()
	}

	return &Logger{Logger: logger}
}

// NewNop creates a no-op logger for testing.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// SetOnTrace sets the trace callback invoked by Trace, e.g. to feed
// internal/trace's event timeline.
func (l *Logger) SetOnTrace(fn func(pc uint64, category, name, detail string)) {
	l.onTrace = fn
}

// Trace logs a categorized emulation event (bus fault, cpu exception, loader
// probe) and calls the trace callback if set. This is the primary method for
// reporting events whose PC matters.
func (l *Logger) Trace(pc uint64, category, name, detail string) {
	if l.onTrace != nil {
		l.onTrace(pc, category, name, detail)
	}

	l.Debug("event",
		zap.String("cat", category),
		zap.String("name", name),
		zap.String("detail", detail),
		zap.Uint64("pc", pc),
	)
}

// TraceSimple logs an event without a PC (uses 0), e.g. for
// configuration-time events like template loading.
func (l *Logger) TraceSimple(category, name, detail string) {
	l.Trace(0, category, name, detail)
}

// Action logs an action being pushed onto the undo stack and executed.
func (l *Logger) Action(id uuid.UUID, description string, undoable bool) {
	l.Info("action",
		zap.String("id", id.String()),
		zap.String("desc", description),
		zap.Bool("undoable", undoable),
	)
}

// Undo logs an action being undone.
func (l *Logger) Undo(id uuid.UUID, description string) {
	l.Info("undo",
		zap.String("id", id.String()),
		zap.String("desc", description),
	)
}

// Redo logs an action being redone.
func (l *Logger) Redo(id uuid.UUID, description string) {
	l.Info("redo",
		zap.String("id", id.String()),
		zap.String("desc", description),
	)
}

// ComponentAdded logs a component being inserted into the tree.
func (l *Logger) ComponentAdded(path, class string) {
	l.Debug("component added",
		zap.String("path", path),
		zap.String("class", class),
	)
}

// ComponentRemoved logs a component being removed from the tree.
func (l *Logger) ComponentRemoved(path, class string) {
	l.Debug("component removed",
		zap.String("path", path),
		zap.String("class", class),
	)
}

// BusFault logs a failed address-bus access.
func (l *Logger) BusFault(pc, addr uint64, detail string) {
	l.Warn("bus fault",
		zap.Uint64("pc", pc),
		zap.String("addr", Hex(addr)),
		zap.String("detail", detail),
	)
}

// CPUException logs a CPU exception or trap being raised.
func (l *Logger) CPUException(pc uint64, cause string) {
	l.Warn("cpu exception",
		zap.Uint64("pc", pc),
		zap.String("cause", cause),
	)
}

// Loaded logs a file successfully loaded into a component's bus.
func (l *Logger) Loaded(filename string, entry uint64) {
	l.Info("loaded",
		zap.String("file", filename),
		zap.String("entry", Hex(entry)),
	)
}

// WithCategory returns a logger with the category field preset.
func (l *Logger) WithCategory(category string) *Logger {
	return &Logger{
		Logger:  l.Logger.With(zap.String("cat", category)),
		onTrace: l.onTrace,
	}
}

// Hex formats a uint64 as hex string for logging.
func Hex(addr uint64) string {
	return "0x" + hexString(addr)
}

func hexString(v uint64) string {
	const digits = "0123456789abcdef"
	if v == 0 {
		return "0"
	}
	buf := make([]byte, 16)
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = digits[v&0xf]
		v >>= 4
	}
	return string(buf[i:])
}

// Field helpers for common patterns.

// Addr creates an address field.
func Addr(addr uint64) zap.Field {
	return zap.String("addr", Hex(addr))
}

// Size creates a size field.
func Size(size uint64) zap.Field {
	return zap.Uint64("size", size)
}

// Ptr creates a pointer field.
func Ptr(name string, ptr uint64) zap.Field {
	return zap.String(name, Hex(ptr))
}

// Fn creates a function or component path field.
func Fn(name string) zap.Field {
	return zap.String("fn", name)
}
