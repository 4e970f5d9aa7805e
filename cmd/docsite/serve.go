package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	docsite "github.com/goliatone/go-docsite"
	"github.com/goliatone/go-docsite/pkg/generator"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

var (
	serveAddr    string
	serveNoWatch bool
)

// serveCmd builds the site, serves it over HTTP, and rebuilds when the
// content directory changes.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Preview the site locally and rebuild on change",
	Run: func(cmd *cobra.Command, args []string) {
		watchEnabled := !serveNoWatch
		module, err := newModuleWith(func(cfg *docsite.Config) {
			cfg.Features.Watch = watchEnabled
			cfg.Watch.Enabled = watchEnabled
		})
		if err != nil {
			fatal("failed to configure docsite", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rebuild := func(ctx context.Context, changed []string) error {
			documents, err := module.Markdown().LoadDirectory(ctx, "", interfaces.LoadOptions{})
			if err != nil {
				return err
			}
			if _, err := module.Sync().SyncDocuments(ctx, documents, interfaces.SyncOptions{DeleteOrphaned: true}); err != nil {
				return err
			}
			result, err := module.Generator().Build(ctx, generator.BuildOptions{})
			if err != nil {
				return err
			}
			fmt.Printf("rebuilt %d pages after %d changes\n", result.PagesBuilt, len(changed))
			return nil
		}

		if err := rebuild(ctx, nil); err != nil {
			fatal("initial build failed", err)
		}

		if watchEnabled {
			watcher, err := module.NewWatcher(rebuild)
			if err != nil {
				fatal("failed to start watcher", err)
			}
			go func() {
				if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					fmt.Fprintf(os.Stderr, "watcher stopped: %v\n", err)
				}
			}()
		}

		server := &http.Server{
			Addr:    serveAddr,
			Handler: http.FileServer(http.Dir(outputDir)),
		}
		go func() {
			<-ctx.Done()
			_ = server.Close()
		}()

		fmt.Printf("serving %s on http://%s\n", outputDir, serveAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server failed", err)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8080", "listen address for the preview server")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "serve the current build without rebuilding on change")
	rootCmd.AddCommand(serveCmd)
}
