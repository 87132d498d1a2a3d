// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package index

import (
	"errors"
	"time"
)

// Config holds the tuning knobs for the index.
type Config struct {
	// MaxIndexSizeMB is the serialized-size budget in megabytes. Once the
	// projected size would exceed it, new terms are rejected (existing
	// postings stay intact). Zero disables the guard.
	// Default: 10
	MaxIndexSizeMB int

	// MaxWordsPerItem caps how many distinct terms are indexed per item.
	// The first N qualifying tokens in scan order survive.
	// Default: 200
	MaxWordsPerItem int

	// MinWordLength is the minimum token length; shorter tokens are dropped.
	// Default: 3
	MinWordLength int

	// DebounceDelay is the quiet period after a mutation before the index
	// is flushed to the durable store. Mutations inside the window coalesce
	// into one write.
	// Default: 1s
	DebounceDelay time.Duration

	// EnableStemming turns on the stemming hook. There is no built-in
	// stemmer; a Stemmer must be supplied or tokens pass through unchanged.
	// Default: false
	EnableStemming bool

	// RemoveStopwords drops common function words during tokenization.
	// Default: true
	RemoveStopwords bool
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithMaxIndexSizeMB sets the serialized-size budget in megabytes.
func WithMaxIndexSizeMB(mb int) ConfigOption {
	return func(c *Config) {
		c.MaxIndexSizeMB = mb
	}
}

// WithMaxWordsPerItem sets the per-item distinct term cap.
func WithMaxWordsPerItem(n int) ConfigOption {
	return func(c *Config) {
		c.MaxWordsPerItem = n
	}
}

// WithMinWordLength sets the minimum token length.
func WithMinWordLength(n int) ConfigOption {
	return func(c *Config) {
		c.MinWordLength = n
	}
}

// WithDebounceDelay sets the flush coalescing window.
func WithDebounceDelay(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.DebounceDelay = d
	}
}

// WithStemmingEnabled toggles the stemming hook.
func WithStemmingEnabled(enabled bool) ConfigOption {
	return func(c *Config) {
		c.EnableStemming = enabled
	}
}

// WithStopwordsRemoved toggles stopword filtering.
func WithStopwordsRemoved(enabled bool) ConfigOption {
	return func(c *Config) {
		c.RemoveStopwords = enabled
	}
}

// DefaultConfig returns a Config with the stock defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxIndexSizeMB:  10,
		MaxWordsPerItem: 200,
		MinWordLength:   3,
		DebounceDelay:   time.Second,
		EnableStemming:  false,
		RemoveStopwords: true,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.MaxIndexSizeMB < 0 {
		return errors.New("index config: MaxIndexSizeMB cannot be negative")
	}
	if c.MaxWordsPerItem < 1 {
		return errors.New("index config: MaxWordsPerItem must be at least 1")
	}
	if c.MinWordLength < 1 {
		return errors.New("index config: MinWordLength must be at least 1")
	}
	if c.DebounceDelay < 0 {
		return errors.New("index config: DebounceDelay cannot be negative")
	}
	return nil
}
