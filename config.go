package beacon

import "github.com/rs/zerolog"

// Option configures a Beacon instance.
type Option func(*Beacon)

// WithLogger sets the logger used for registry diagnostics (reaped owners,
// sweeps, recovered panics). By default nothing is logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Beacon) {
		b.log = logger
	}
}

// WithPanicHandler sets a callback to be invoked when a weak-path callback
// panics during dispatch. The handler receives the signal and the recovered
// panic value. By default recovered panics are logged at warn level.
func WithPanicHandler(handler PanicHandler) Option {
	return func(b *Beacon) {
		b.panicHandler = handler
	}
}
