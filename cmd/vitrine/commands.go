package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/poiesic/vitrine"
	"github.com/poiesic/vitrine/builder"
	"github.com/poiesic/vitrine/core"
	"github.com/poiesic/vitrine/preview"
	"github.com/poiesic/vitrine/surface"
	"github.com/urfave/cli/v2"
)

func buildOptions(c *cli.Context) []builder.Option {
	opts := []builder.Option{builder.WithLogger(slog.Default())}
	if n := c.Int("pool-size"); n > 0 {
		opts = append(opts, builder.WithPoolSize(n))
	}
	if c.Bool("progress") {
		opts = append(opts, builder.WithProgress(c.App.ErrWriter, 500))
	}
	return opts
}

func mockCommand(c *cli.Context) error {
	cfg := builder.SyntheticConfig{
		Seed:                 c.Uint64("seed"),
		Count:                c.Int("count"),
		VariationsPerProduct: c.Int("variations"),
	}
	result, err := builder.Generate(cfg, buildOptions(c)...)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	return writeResult(c, result)
}

func fromJSONCommand(c *cli.Context) error {
	products, variations, err := builder.ReadExports(c.String("products"), c.String("variations"))
	if err != nil {
		return err
	}
	result, err := builder.Join(products, variations, buildOptions(c)...)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	return writeResult(c, result)
}

func writeResult(c *cli.Context, result *builder.Result) error {
	out := c.String("out")
	if err := builder.WriteOutputs(result.Catalog, out, c.String("json")); err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Wrote %d products to %s\n", len(result.Catalog.Products), out)
	if len(result.Warnings) == 0 {
		return nil
	}
	fmt.Fprintf(w, "%d warnings:\n", len(result.Warnings))
	for _, kind := range []builder.WarningKind{
		builder.WarnOrphanVariation,
		builder.WarnInvalidProduct,
		builder.WarnDerivedSlug,
		builder.WarnDuplicate,
		builder.WarnPromoMismatch,
		builder.WarnPromoAbovePrice,
	} {
		if n := builder.Count(result.Warnings, kind); n > 0 {
			fmt.Fprintf(w, "  %-18s %d\n", kind, n)
		}
	}
	return nil
}

func inspectCommand(c *cli.Context) error {
	path := c.String("blob")
	catalog, blob, err := builder.ReadBlob(path)
	if err != nil {
		return err
	}

	var promos, variations int
	for _, p := range catalog.Products {
		if p.IsPromotional && p.PromotionalPrice != nil {
			promos++
		}
		variations += len(p.Variations)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Blob: %s\n", path)
	fmt.Fprintf(w, "Format version: %d\n", catalog.Version)
	fmt.Fprintf(w, "Size: %d bytes\n", len(blob))
	fmt.Fprintf(w, "Fingerprint: %s\n", core.Fingerprint(blob))
	fmt.Fprintf(w, "Products: %d\n", len(catalog.Products))
	fmt.Fprintf(w, "Variations: %d\n", variations)
	fmt.Fprintf(w, "On promotion: %d\n", promos)
	return nil
}

func openRegistry(c *cli.Context) (*vitrine.Registry, error) {
	reg, err := vitrine.OpenRegistry(c.String("registry"), vitrine.WithLogger(slog.Default()))
	if err != nil {
		return nil, fmt.Errorf("failed to open registry: %w", err)
	}
	return reg, nil
}

func publishCommand(c *cli.Context) error {
	blob, err := os.ReadFile(c.String("blob"))
	if err != nil {
		return err
	}

	reg, err := openRegistry(c)
	if err != nil {
		return err
	}
	defer reg.Close()

	manifest, err := reg.Publish(c.Context, c.String("name"), blob)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Published %s: %d products, %s\n", manifest.Name, manifest.ProductCount, manifest.Fingerprint)
	return nil
}

func listCommand(c *cli.Context) error {
	reg, err := openRegistry(c)
	if err != nil {
		return err
	}
	defer reg.Close()

	manifests, err := reg.List(c.Context)
	if err != nil {
		return err
	}
	for _, m := range manifests {
		fmt.Fprintf(c.App.Writer, "%s\t%s\t%d products\t%d bytes\t%s\n",
			m.Name, m.Fingerprint, m.ProductCount, m.ByteSize, m.PublishedAt.Format(time.RFC3339))
	}
	return nil
}

func serveCommand(c *cli.Context) error {
	path := c.String("blob")
	srv, err := preview.New(
		preview.WithLogger(slog.Default()),
		preview.WithEngineOptions(surface.WithMaxBadges(c.Int("max-badges"))),
	)
	if err != nil {
		return err
	}
	if err := srv.Load(path); err != nil {
		slog.Warn("catalog unavailable", "path", path, "err", err)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.Bool("watch") {
		w, err := preview.NewWatcher(srv, path)
		if err != nil {
			return err
		}
		go func() {
			if err := w.Run(ctx); err != nil {
				slog.Error("watcher stopped", "err", err)
			}
		}()
	}

	httpServer := &http.Server{
		Addr:              c.String("addr"),
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	slog.Info("serving catalog", "addr", httpServer.Addr, "blob", path)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
