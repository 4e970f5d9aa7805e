package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	docsite "github.com/goliatone/go-docsite"
	"github.com/goliatone/go-docsite/pkg/generator"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

var (
	buildDrafts      bool
	buildIncremental bool
	buildLocales     []string
	buildSlugs       []string
)

// buildCmd syncs the catalog and renders the static site in one run.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the documentation site to the output directory",
	Run: func(cmd *cobra.Command, args []string) {
		module, err := newModuleWith(func(cfg *docsite.Config) {
			cfg.Generator.Incremental = buildIncremental
			cfg.Generator.CleanBuild = !buildIncremental
			cfg.Generator.IncludeDrafts = buildDrafts
		})
		if err != nil {
			fatal("failed to configure docsite", err)
		}

		ctx := context.Background()
		documents, err := module.Markdown().LoadDirectory(ctx, "", interfaces.LoadOptions{})
		if err != nil {
			fatal("failed to load documents", err)
		}
		if _, err := module.Sync().SyncDocuments(ctx, documents, interfaces.SyncOptions{}); err != nil {
			fatal("sync failed", err)
		}

		result, err := module.Generator().Build(ctx, generator.BuildOptions{
			Locales: buildLocales,
			Slugs:   buildSlugs,
		})
		if err != nil {
			fatal("build failed", err)
		}

		fmt.Printf("built %d pages (%d skipped) in %s\n", result.PagesBuilt, result.PagesSkipped, outputDir)
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildDrafts, "drafts", false, "include draft pages in the build")
	buildCmd.Flags().BoolVar(&buildIncremental, "incremental", false, "skip pages whose content is unchanged since the last build")
	buildCmd.Flags().StringSliceVar(&buildLocales, "locale", nil, "limit the build to the given locales")
	buildCmd.Flags().StringSliceVar(&buildSlugs, "slug", nil, "limit the build to the given slugs")
	rootCmd.AddCommand(buildCmd)
}
