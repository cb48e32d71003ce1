package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"semsi/internal/archive"
)

// newRunsCmd lists (and optionally previews) matrix runs stored in a SQLite
// archive written with --format sqlite.
func newRunsCmd() *cobra.Command {
	var show string
	var preview int
	cmd := &cobra.Command{
		Use:          "runs <archive-db>",
		Short:        "List similarity runs stored in a SQLite archive",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := archive.Open(args[0])
			if err != nil {
				return err
			}
			defer store.Close()
			ctx := cmd.Context()

			if show != "" {
				m, err := store.LoadRun(ctx, show)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), m.Preview(preview, 3))
				return nil
			}

			infos, err := store.ListRuns(ctx)
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs archived yet.")
				return nil
			}
			for _, info := range infos {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %d labels  %s\n",
					info.ID, info.CreatedAt.Format(time.RFC3339), info.LabelCount, info.Source)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&show, "show", "", "preview the archived run with this id")
	cmd.Flags().IntVar(&preview, "preview", 5, "rows/columns shown with --show")
	return cmd
}
