package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

var (
	syncDryRun  bool
	syncForce   bool
	syncOrphans bool
)

// syncCmd loads every document and reconciles the page catalog.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Load Markdown documents into the page catalog",
	Long: `Sync walks the content directory, groups documents by slug, and
creates or updates one page per slug with one translation per locale.
Unchanged files are detected by checksum and skipped.`,
	Run: func(cmd *cobra.Command, args []string) {
		module, err := newModule()
		if err != nil {
			fatal("failed to configure docsite", err)
		}

		ctx := context.Background()
		documents, err := module.Markdown().LoadDirectory(ctx, "", interfaces.LoadOptions{})
		if err != nil {
			fatal("failed to load documents", err)
		}

		result, err := module.Sync().SyncDocuments(ctx, documents, interfaces.SyncOptions{
			DryRun:         syncDryRun,
			Force:          syncForce,
			DeleteOrphaned: syncOrphans,
		})
		if err != nil {
			fatal("sync failed", err)
		}

		fmt.Printf("synced %d documents: %d created, %d updated, %d skipped, %d deleted\n",
			len(documents), result.Created, result.Updated, result.Skipped, result.Deleted)
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "report actions without writing to the catalog")
	syncCmd.Flags().BoolVar(&syncForce, "force", false, "reimport documents even when checksums match")
	syncCmd.Flags().BoolVar(&syncOrphans, "delete-orphaned", false, "remove catalog pages whose source files are gone")
	rootCmd.AddCommand(syncCmd)
}
