package compose

import "log/slog"

// DefaultMaxCanvasPixels bounds the shadow canvas of a single request
// (16384 x 16384).
const DefaultMaxCanvasPixels = 1 << 28

// Option configures a Pipeline during creation.
//
// Example:
//
//	p := compose.New(
//	    compose.WithLogger(slog.Default()),
//	    compose.WithMaxCanvasPixels(4096*4096),
//	)
type Option func(*options)

type options struct {
	logger          *slog.Logger
	maxCanvasPixels int
}

func defaultOptions() options {
	return options{
		logger:          newNopLogger(),
		maxCanvasPixels: DefaultMaxCanvasPixels,
	}
}

// WithLogger sets the logger diagnostics are reported to.
// By default a Pipeline produces no log output. Pass nil to keep it silent.
//
// Log levels used:
//   - [slog.LevelDebug]: per-request summary (sizes, background kind, timing)
//   - [slog.LevelWarn]: fallbacks taken (bad color, bad gradient, bad background image)
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = newNopLogger()
		}
		o.logger = l
	}
}

// WithMaxCanvasPixels limits the number of pixels of the shadow canvas.
// Requests exceeding it fail with ErrCanvasTooLarge. Zero or a negative
// value disables the limit.
func WithMaxCanvasPixels(n int) Option {
	return func(o *options) {
		o.maxCanvasPixels = n
	}
}
