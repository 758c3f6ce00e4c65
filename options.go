package datrie

import (
	"log/slog"

	"github.com/hupe1980/datrie/internal/builder"
	"github.com/hupe1980/datrie/internal/fs"
	"github.com/hupe1980/datrie/persistence"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	memoryLimit      int64
	ioLimit          int64
	fsys             fs.FileSystem
}

// Option configures a Trie.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for builds, loads,
// dumps and batch lookups. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &datrie.BasicMetricsCollector{}
//	t := datrie.New(datrie.WithMetricsCollector(metrics))
//	// ... use t ...
//	stats := metrics.GetStats()
//	fmt.Printf("Builds: %d, Avg latency: %dns\n", stats.BuildCount, stats.BuildAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging. Pass nil to disable logging.
//
//	logger := datrie.NewJSONLogger(slog.LevelInfo)
//	t := datrie.New(datrie.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMemoryLimit bounds the heap held by the unit array in bytes. Builds
// stop with a KindBuild error once the array would exceed it and loads
// fail with KindIO. Mapped loads are not counted. 0 means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithIOLimit throttles blob transfers to bytes per second. 0 means
// unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

func withFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		fsys:             fs.Default,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// ProgressFunc receives the number of processed keys and the total. The
// last call reports done == total.
type ProgressFunc = builder.ProgressFunc

type buildOptions struct {
	progress ProgressFunc
	maxUnits int
}

// BuildOption configures a single Build call.
type BuildOption func(*buildOptions)

// WithProgress reports build progress to fn.
func WithProgress(fn ProgressFunc) BuildOption {
	return func(o *buildOptions) {
		o.progress = fn
	}
}

// WithMaxUnits fails the build once the array would grow beyond n units.
func WithMaxUnits(n int) BuildOption {
	return func(o *buildOptions) {
		o.maxUnits = n
	}
}

// DumpMode selects how Dump treats an existing file.
type DumpMode = persistence.DumpMode

// Dump modes. DumpOverwrite is the default.
const (
	DumpOverwrite = persistence.DumpOverwrite
	DumpTruncate  = persistence.DumpTruncate
	DumpAppend    = persistence.DumpAppend
)

type dumpOptions struct {
	mode DumpMode
}

// DumpOption configures a single Dump call.
type DumpOption func(*dumpOptions)

// WithDumpMode selects the dump mode.
func WithDumpMode(mode DumpMode) DumpOption {
	return func(o *dumpOptions) {
		o.mode = mode
	}
}
