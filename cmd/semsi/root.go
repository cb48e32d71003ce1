package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"semsi/internal/archive"
	"semsi/internal/config"
	"semsi/internal/service"
	"semsi/internal/similarity"
)

type rootOptions struct {
	cfgPath        string
	output         string
	format         string
	topN           int
	target         string
	list           bool
	keepDuplicates bool
	preview        int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "semsi <contents-file>",
		Short: "Build semantic similarity matrices from tag lists",
		Long: "semsi parses a contents.txt style file of bracketed tag lists, embeds every\n" +
			"entry as a TF-IDF vector and computes pairwise cosine similarity between all\n" +
			"documents.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.cfgPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&opts.output, "output", "", "write the similarity matrix to this path")
	cmd.Flags().StringVar(&opts.format, "format", "csv", "output format: csv, json, gob or sqlite")
	cmd.Flags().IntVar(&opts.topN, "top", 0, "print the N most similar documents for the target")
	cmd.Flags().StringVar(&opts.target, "target", "", "document identifier for --top (default: first parsed document)")
	cmd.Flags().BoolVar(&opts.list, "list", false, "list parsed document identifiers and exit")
	cmd.Flags().BoolVar(&opts.keepDuplicates, "keep-duplicates", false, "preserve duplicate document identifiers when parsing")
	cmd.Flags().IntVar(&opts.preview, "preview", 0, "rows/columns shown in the preview table")

	cmd.AddCommand(newRunsCmd())
	return cmd
}

func runRoot(cmd *cobra.Command, contentsPath string, opts *rootOptions) error {
	cfg, err := loadConfig(opts.cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cmd.Flags().Changed("preview") {
		opts.preview = cfg.Preview.Limit
	}
	if !cmd.Flags().Changed("keep-duplicates") {
		opts.keepDuplicates = cfg.Parser.KeepDuplicates
	}

	result, err := service.BuildFromFile(contentsPath, service.Options{
		KeepDuplicates: opts.keepDuplicates,
		Decimals:       cfg.Matrix.Decimals,
	})
	if err != nil {
		return err
	}
	for _, d := range result.Diagnostics {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", d)
	}

	if opts.list {
		for _, doc := range result.Documents {
			fmt.Fprintln(cmd.OutOrStdout(), doc.Identifier)
		}
		return nil
	}

	if opts.output != "" {
		if err := saveMatrix(result.Matrix, contentsPath, opts.output, opts.format, cfg.Matrix.Decimals); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s matrix to %s\n", opts.format, opts.output)
	}

	if opts.topN > 0 {
		target := opts.target
		if target == "" {
			target = result.Documents[0].Identifier
		}
		scores, err := similarity.TopSimilar(result.Matrix, target, opts.topN, false)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Top %d matches for %s:\n", len(scores), target)
		for _, s := range scores {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s: %.3f\n", s.Label, s.Value)
		}
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Matrix.Preview(opts.preview, cfg.Preview.Decimals))
	return nil
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path == "" {
		cfg, _, err := config.LoadDefault()
		return cfg, err
	}
	return config.Load(path)
}

// saveMatrix persists the matrix in the requested format. File formats create
// parent directories as needed; the sqlite format appends a run to an archive
// database.
func saveMatrix(m *similarity.Matrix, source, path, format string, decimals int) error {
	if format == "sqlite" {
		store, err := archive.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()
		_, err = store.SaveRun(context.Background(), source, m)
		return err
	}

	switch format {
	case "csv", "json", "gob":
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	switch format {
	case "json":
		return m.WriteJSON(f, decimals)
	case "gob":
		return m.WriteSnapshot(f)
	default:
		return m.WriteCSV(f, decimals)
	}
}
