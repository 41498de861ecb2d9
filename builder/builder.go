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

package builder

import (
	"io"
	"log/slog"
	"runtime"

	"github.com/poiesic/vitrine/core"
)

// Result is a built catalog and the warnings recorded while building it.
type Result struct {
	Catalog  *core.Catalog
	Warnings []Warning
}

type settings struct {
	logger           *slog.Logger
	poolSize         int
	progress         io.Writer
	progressInterval int
}

// Option configures a build.
type Option func(*settings) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithPoolSize sets the worker pool size used to compute search text.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *settings) error {
		if size < 1 {
			size = 1
		}
		s.poolSize = size
		return nil
	}
}

// WithProgress reports preparation progress to w every interval products.
func WithProgress(w io.Writer, interval int) Option {
	return func(s *settings) error {
		if interval < 1 {
			interval = 1
		}
		s.progress = w
		s.progressInterval = interval
		return nil
	}
}

func newSettings(opts []Option) (*settings, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	s := &settings{
		logger:   slog.Default(),
		poolSize: poolSize,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}
