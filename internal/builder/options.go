package builder

import "log/slog"

// ProgressFunc receives the number of processed keys and the total. The
// total is the key count plus one; the final call reports total == done.
type ProgressFunc func(done, total int)

// Options configures a build.
type Options struct {
	// Progress is called once per terminal written and once on completion.
	Progress ProgressFunc

	// MaxUnits bounds the number of units. 0 means unlimited.
	MaxUnits int

	// Logger receives debug output. Nil disables logging.
	Logger *slog.Logger
}
