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
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/vitrine/builder"
	"github.com/poiesic/vitrine/search"
)

var (
	blobPath = flag.String("blob", "catalog.bin", "catalog blob to search")
	limit    = flag.Int("limit", 5, "maximum hits to print")
	trace    = flag.Bool("trace", false, "log each matching stage")
)

func init() {
	level := slog.LevelInfo
	flag.Parse()
	if *trace {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func main() {
	catalog, _, err := builder.ReadBlob(*blobPath)
	if err != nil {
		panic(err)
	}
	searcher, err := search.NewSearcher(catalog)
	if err != nil {
		panic(err)
	}

	query := "oak table"
	if flag.NArg() > 0 {
		query = strings.Join(flag.Args(), " ")
	}

	var hits []search.Hit
	if *trace {
		hits = searcher.SearchWithMonitor(query, &search.LogMonitor{})
	} else {
		hits = searcher.SearchHits(query)
	}

	fmt.Printf("Found %d hits\n", len(hits))
	for i, hit := range hits {
		if i == *limit {
			break
		}
		fmt.Printf("%d: '%s' (%s)[%s %0.3f]\n", i, hit.Product.Name, hit.Product.Slug, hit.Tier, hit.Score)
	}
}
