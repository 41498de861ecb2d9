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

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := loadDotEnv(".env"); err != nil {
		log.Fatal(err)
	}
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "vitrine",
		Usage: "Build, inspect, and serve product catalog blobs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"VITRINE_LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "mock",
				Usage:  "Generate a synthetic catalog",
				Action: mockCommand,
				Flags: append([]cli.Flag{
					&cli.Uint64Flag{
						Name:    "seed",
						Usage:   "Generator seed; equal seeds produce identical blobs",
						Value:   1,
						EnvVars: []string{"VITRINE_SEED"},
					},
					&cli.IntFlag{
						Name:  "count",
						Usage: "Number of products to generate",
						Value: 10000,
					},
					&cli.IntFlag{
						Name:  "variations",
						Usage: "Variations per product",
						Value: 3,
					},
				}, outputFlags()...),
			},
			{
				Name:   "from-json",
				Usage:  "Build a catalog from product and variation exports",
				Action: fromJSONCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "products",
						Usage:    "Path to the product export (JSON array)",
						Required: true,
						EnvVars:  []string{"VITRINE_PRODUCTS"},
					},
					&cli.StringFlag{
						Name:     "variations",
						Usage:    "Path to the variation export (JSON array)",
						Required: true,
						EnvVars:  []string{"VITRINE_VARIATIONS"},
					},
				}, outputFlags()...),
			},
			{
				Name:   "inspect",
				Usage:  "Decode a blob and print a summary",
				Action: inspectCommand,
				Flags: []cli.Flag{
					blobFlag(),
				},
			},
			{
				Name:   "publish",
				Usage:  "Store a blob in the local registry",
				Action: publishCommand,
				Flags: []cli.Flag{
					blobFlag(),
					registryFlag(),
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Catalog name",
						Required: true,
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List catalogs in the local registry",
				Action: listCommand,
				Flags: []cli.Flag{
					registryFlag(),
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve a blob and its search API for local preview",
				Action: serveCommand,
				Flags: []cli.Flag{
					blobFlag(),
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Listen address",
						Value:   "localhost:8080",
						EnvVars: []string{"VITRINE_ADDR"},
					},
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "Reload when the blob file is rebuilt",
						Value: true,
					},
					&cli.IntFlag{
						Name:  "max-badges",
						Usage: "Maximum variation badges per product",
						Value: 6,
					},
				},
			},
		},
	}
}

func blobFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "blob",
		Aliases: []string{"b"},
		Usage:   "Path to the catalog blob",
		Value:   "catalog.bin",
		EnvVars: []string{"VITRINE_BLOB"},
	}
}

func registryFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "registry",
		Aliases: []string{"r"},
		Usage:   "Path to the BadgerDB registry directory",
		Value:   "./vitrine_db",
		EnvVars: []string{"VITRINE_REGISTRY"},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "Where to write the catalog blob",
			Value:   "catalog.bin",
			EnvVars: []string{"VITRINE_BLOB"},
		},
		&cli.StringFlag{
			Name:  "json",
			Usage: "Also write a JSON dump of the catalog to this path",
		},
		&cli.IntFlag{
			Name:  "pool-size",
			Usage: "Workers used to prepare search text (0 picks a default)",
		},
		&cli.BoolFlag{
			Name:  "progress",
			Usage: "Report preparation progress on stderr",
		},
	}
}

// loadDotEnv sets variables from path when it exists. Variables already in the
// environment win.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
