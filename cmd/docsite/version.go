package main

import (
	"fmt"

	"github.com/spf13/cobra"

	docsite "github.com/goliatone/go-docsite"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the docsite version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("docsite version %s\n", docsite.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
