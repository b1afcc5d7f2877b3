// Copyright (c) 2025 SciGo MarkTree Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package marktree

import (
	"github.com/rs/zerolog"

	"github.com/scigolib/marktree/internal/structures"
	"github.com/scigolib/marktree/internal/utils"
)

// defaultArity is the number of extents a leaf can hold before splitting.
// Small arities make degenerate shapes easy to hit in tests.
const defaultArity = 7

type config struct {
	arity     int
	rebalance structures.RebalanceConfig
	logger    zerolog.Logger
}

func defaultConfig() config {
	return config{
		arity:  defaultArity,
		logger: zerolog.Nop(),
	}
}

// Option configures a tree at construction.
//
// Example:
//
//	tree := marktree.New[uint64](len(text),
//	    marktree.WithLazyRebalancing(
//	        marktree.LazyThreshold(0.2),
//	    ),
//	)
type Option func(*config)

// WithArity sets the leaf arity (at least 2). Mostly useful in tests to
// force deep trees out of small inputs.
func WithArity(n int) Option {
	return func(c *config) {
		if n < 2 {
			utils.Violate(utils.OpOutOfRange, "leaf arity must be at least 2, got %d", n)
		}
		c.arity = n
	}
}

// WithLogger attaches a logger. The tree logs rebalancing events at debug
// level and nothing on hot paths. The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithLazyRebalancing enables threshold-triggered compaction of the leaf
// level. Shift-heavy workloads fragment leaves; with lazy rebalancing the
// tree compacts itself once the underfilled ratio crosses the threshold.
//
// Default configuration if no options are given: threshold 0.3, minimum
// 8 leaves. Compaction is always inline; there is no background mode
// because a tree is single-threaded by contract.
func WithLazyRebalancing(opts ...LazyOption) Option {
	return func(c *config) {
		cfg := structures.DefaultLazyConfig()
		for _, opt := range opts {
			opt(&cfg)
		}
		c.rebalance = cfg
	}
}

// LazyOption configures lazy rebalancing.
type LazyOption func(*structures.RebalanceConfig)

// LazyThreshold sets the underfilled/total leaf ratio that triggers
// compaction. Range: (0, 1]; default 0.3.
func LazyThreshold(ratio float64) LazyOption {
	return func(c *structures.RebalanceConfig) {
		if ratio <= 0 || ratio > 1 {
			utils.Violate(utils.OpOutOfRange, "rebalancing threshold must be in (0, 1], got %v", ratio)
		}
		c.Threshold = ratio
	}
}

// LazyMinLeaves suppresses compaction below this leaf count. Default 8.
func LazyMinLeaves(n int) LazyOption {
	return func(c *structures.RebalanceConfig) {
		if n < 1 {
			utils.Violate(utils.OpOutOfRange, "minimum leaf count must be positive, got %d", n)
		}
		c.MinLeaves = n
	}
}
