package sampler

import "log/slog"

type options struct {
	log     *slog.Logger
	inner   bool
	noRelax bool
}

type Option interface {
	apply(*options)
}

type logger struct {
	l *slog.Logger
}

func (l logger) apply(o *options) {
	o.log = l.l
}

// Default: slog.Default()
func WithLogger(l *slog.Logger) Option {
	return logger{l: l}
}

type innerSampling bool

func (i innerSampling) apply(o *options) {
	o.inner = bool(i)
}

// WithInnerSampling toggles Poisson-disc points inside fields.
// Default: true
func WithInnerSampling(enabled bool) Option {
	return innerSampling(enabled)
}

type relaxation bool

func (r relaxation) apply(o *options) {
	o.noRelax = !bool(r)
}

// Default: true
func WithRelaxation(enabled bool) Option {
	return relaxation(enabled)
}
