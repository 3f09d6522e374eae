package db

import "github.com/jakechorley/capacity-planner/pkg/core/timemodel"

// Options tunes how stored records become model values
type Options struct {
	// DefaultSchedule replaces a worker's missing or unparseable schedule
	DefaultSchedule timemodel.Schedule
}

// Option sets one field of Options
type Option func(*Options)

// WithDefaultSchedule overrides the built-in 9h-17h fallback schedule
func WithDefaultSchedule(s timemodel.Schedule) Option {
	return func(o *Options) {
		o.DefaultSchedule = s
	}
}

// NewOptions applies opts over the defaults
func NewOptions(opts ...Option) Options {
	o := Options{DefaultSchedule: timemodel.DefaultSchedule()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
