package main

import (
	"fmt"
	"time"

	"github.com/robert-malhotra/go-epr/internal/catalog"
	"github.com/spf13/cobra"
)

var catalogLimit int

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the import catalog",
	}

	cmd.AddCommand(catalogListCmd())
	cmd.AddCommand(catalogShowCmd())

	return cmd
}

func catalogListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded imports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := openCatalog()
			if err != nil {
				return err
			}
			defer func() { _ = cat.Close() }()

			entries, err := cat.List(cmd.Context(), catalogLimit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %s  %-10s  %d-D  %6d  %s\n",
					e.ID, e.ImportedAt.Local().Format(time.DateTime), e.Format, e.Dims, e.Points, e.Path)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&catalogLimit, "limit", "n", 20, "Maximum number of entries (0 for all)")

	return cmd
}

func catalogShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one import and its override log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalog()
			if err != nil {
				return err
			}
			defer func() { _ = cat.Close() }()

			e, err := cat.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:       %s\n", e.ID)
			fmt.Fprintf(out, "path:     %s\n", e.Path)
			fmt.Fprintf(out, "format:   %s\n", e.Format)
			fmt.Fprintf(out, "shape:    %d-D, %d points\n", e.Dims, e.Points)
			fmt.Fprintf(out, "imported: %s\n", e.ImportedAt.Local().Format(time.RFC3339))
			for _, o := range e.Overrides {
				fmt.Fprintf(out, "  %s\n", o)
			}
			return nil
		},
	}
}

func openCatalog() (*catalog.Catalog, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return catalog.Open(catalog.Config{
		Path:        cfg.Catalog.Path,
		WALMode:     cfg.Catalog.WALMode,
		BusyTimeout: cfg.Catalog.BusyTimeout,
	})
}
