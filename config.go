package rstartree

import "log"

// Config controls the tree's branching factor. Invalid values are
// replaced by the defaults (MinNodeEntries capped at MaxNodeEntries/2),
// with a warning logged rather than an error
// returned — an InvalidConfiguration never fails tree construction.
type Config struct {
	MaxNodeEntries int // default 50
	MinNodeEntries int // default 20
}

const (
	defaultMaxNodeEntries = 50
	defaultMinNodeEntries = 20
)

// normalize clamps an incoming Config to a valid, internally consistent
// one, logging a warning for every substitution it has to make.
func normalize(cfg Config) Config {
	max := cfg.MaxNodeEntries
	if max < 2 {
		log.Printf("rstartree: MaxNodeEntries=%d is invalid (must be >= 2); using default %d",
			cfg.MaxNodeEntries, defaultMaxNodeEntries)
		max = defaultMaxNodeEntries
	}

	min := cfg.MinNodeEntries
	if min < 1 || min > max/2 {
		log.Printf("rstartree: MinNodeEntries=%d is invalid for MaxNodeEntries=%d (must be in [1, max/2]); using default %d",
			cfg.MinNodeEntries, max, defaultMinNodeEntries)
		min = defaultMinNodeEntries
		if min > max/2 {
			min = max / 2
		}
		if min < 1 {
			min = 1
		}
	}

	return Config{MaxNodeEntries: max, MinNodeEntries: min}
}
