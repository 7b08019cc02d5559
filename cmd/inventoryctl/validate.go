package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kdcar/kdcar-backend/internal/inventory"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Load and normalize a fallback catalog file",
		Long:  "validate loads the catalog at path, or the bundled catalog when no path is given, and reports the record count and any duplicate slugs.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			catalog, err := inventory.LoadCatalog(ctx, path, time.Now(), opts.logger(cmd))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			source := path
			if source == "" {
				source = "bundled"
			}
			fmt.Fprintf(out, "catalog: %s\n", source)
			fmt.Fprintf(out, "records: %d\n", catalog.Len())
			dups := catalog.Duplicates()
			for _, slug := range dups {
				fmt.Fprintf(out, "duplicate slug: %s\n", slug)
			}
			if strict && len(dups) > 0 {
				return fmt.Errorf("%d duplicate slug(s)", len(dups))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when duplicate slugs are found")
	return cmd
}
