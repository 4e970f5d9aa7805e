package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	docsite "github.com/goliatone/go-docsite"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

var (
	checkLanguages     []string
	checkSkipLinks     bool
	checkSkipSnippets  bool
	checkFailOnWarning bool
)

// checkCmd validates snippets and links without touching the output directory.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that code snippets parse and internal links resolve",
	Long: `Check loads every document and runs the editorial QA pass: each
fenced code block must parse under its language grammar, and each internal
link must resolve to a page route (and heading anchor, when a fragment is
present). External links are not fetched. The command exits non-zero when
any finding is reported.`,
	Run: func(cmd *cobra.Command, args []string) {
		module, err := newModuleWith(func(cfg *docsite.Config) {
			cfg.Check.Links = !checkSkipLinks
			cfg.Check.Snippets = !checkSkipSnippets
			cfg.Check.SnippetLanguages = checkLanguages
			cfg.Check.FailOnWarning = checkFailOnWarning
		})
		if err != nil {
			fatal("failed to configure docsite", err)
		}

		ctx := context.Background()
		documents, err := module.Markdown().LoadDirectory(ctx, "", interfaces.LoadOptions{})
		if err != nil {
			fatal("failed to load documents", err)
		}

		report, err := module.Check().CheckDocuments(ctx, documents)
		if err != nil {
			fatal("check failed", err)
		}

		fmt.Printf("checked %d pages: %d snippets, %d links (%d snippets skipped, %d links skipped)\n",
			report.PagesChecked, report.SnippetsChecked, report.LinksChecked,
			report.SnippetsSkipped, report.LinksSkipped)

		for _, issue := range report.Issues {
			fmt.Fprintln(os.Stderr, issue.String())
		}
		if report.Failed(checkFailOnWarning) {
			os.Exit(1)
		}
	},
}

func init() {
	checkCmd.Flags().StringSliceVar(&checkLanguages, "languages", nil, "restrict snippet parsing to these grammars (default: all)")
	checkCmd.Flags().BoolVar(&checkSkipLinks, "skip-links", false, "skip the link resolution pass")
	checkCmd.Flags().BoolVar(&checkSkipSnippets, "skip-snippets", false, "skip the snippet syntax pass")
	checkCmd.Flags().BoolVar(&checkFailOnWarning, "fail-on-warning", true, "exit non-zero on warning findings such as missing anchors")
	rootCmd.AddCommand(checkCmd)
}
