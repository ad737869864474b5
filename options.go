// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package taskslab

// schedulerOptions holds configuration for Scheduler creation.
type schedulerOptions struct {
	logger         Logger
	initialPages   int
	metricsEnabled bool
}

// --- Scheduler Options ---

// Option configures a Scheduler instance.
type Option interface {
	applyScheduler(*schedulerOptions)
}

// optionFunc implements Option.
type optionFunc struct {
	fn func(*schedulerOptions)
}

func (o *optionFunc) applyScheduler(opts *schedulerOptions) {
	o.fn(opts)
}

// WithLogger sets the Logger used for the scheduler's own diagnostic
// output (page growth, slot reclamation, handle finalizer warnings).
// Defaults to the package-level logger set by SetStructuredLogger at the
// time New is called, or a no-op logger if none has been set.
func WithLogger(logger Logger) Option {
	return &optionFunc{func(opts *schedulerOptions) {
		opts.logger = logger
	}}
}

// WithInitialPages pre-sizes the scheduler's page list to n pages
// (n*64 keys) up front, avoiding growth churn for workloads whose task
// count is known ahead of time.
func WithInitialPages(n int) Option {
	return &optionFunc{func(opts *schedulerOptions) {
		opts.initialPages = n
	}}
}

// WithMetrics enables lightweight runtime counters (pages allocated,
// slots reclaimed, poll sweeps run), retrievable via Scheduler.Metrics.
func WithMetrics(enabled bool) Option {
	return &optionFunc{func(opts *schedulerOptions) {
		opts.metricsEnabled = enabled
	}}
}

// resolveOptions applies Option instances to a fresh schedulerOptions.
func resolveOptions(opts []Option) *schedulerOptions {
	cfg := &schedulerOptions{
		logger: getGlobalLogger(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue // skip nil options gracefully
		}
		opt.applyScheduler(cfg)
	}
	return cfg
}
