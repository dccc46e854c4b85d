package main

import (
	"fmt"
	"strings"

	"github.com/robert-malhotra/go-epr/epr"
	"github.com/spf13/cobra"
)

func formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported formats and their file extensions",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			for _, f := range epr.Formats() {
				fmt.Fprintf(out, "%-12s %s\n", f, strings.Join(epr.Extensions(f), " "))
			}
			fmt.Fprintf(out, "%-12s directory of spectra named by angle (gon)\n", epr.Goniometer)
		},
	}
}
