package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	docsite "github.com/goliatone/go-docsite"
)

var (
	contentDir    string
	outputDir     string
	layoutDir     string
	siteTitle     string
	baseURL       string
	defaultLocale string
	locales       []string
	verbose       bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "docsite",
	Short: "Build a documentation site from localized Markdown files",
	Long: `Docsite loads Markdown documents with front matter (type, layout,
category, title), syncs them into a page catalog, and renders a static site
with per-locale routes, navigation, and a sitemap. The check command verifies
that code snippets parse and internal links resolve.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&contentDir, "content", "c", "docs", "directory holding Markdown documents")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "dist", "directory receiving generated HTML")
	rootCmd.PersistentFlags().StringVar(&layoutDir, "layouts", "", "directory with layout templates (defaults to embedded layouts)")
	rootCmd.PersistentFlags().StringVar(&siteTitle, "title", "Documentation", "site title surfaced to layouts")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "absolute site URL used for canonical links and the sitemap")
	rootCmd.PersistentFlags().StringVar(&defaultLocale, "default-locale", "en", "locale served from the site root")
	rootCmd.PersistentFlags().StringSliceVar(&locales, "locales", []string{"en"}, "locales to load and publish")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// newModule builds the docsite runtime from the persistent flags.
func newModule() (*docsite.Module, error) {
	return newModuleWith(nil)
}

// newModuleWith applies command-specific overrides on top of the flag-derived
// configuration before constructing the module.
func newModuleWith(mutate func(*docsite.Config)) (*docsite.Module, error) {
	cfg := docsite.DefaultConfig()
	cfg.Site.Title = siteTitle
	cfg.Site.BaseURL = strings.TrimSpace(baseURL)
	cfg.Docs.ContentDir = contentDir
	cfg.DefaultLocale = defaultLocale
	cfg.Docs.Locales = locales
	cfg.Generator.OutputDir = outputDir
	cfg.Generator.LayoutDir = layoutDir
	cfg.Features.Logger = true
	cfg.Logging.Level = "info"
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return docsite.New(cfg)
}
