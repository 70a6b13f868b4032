// Package main provides the bookmarkgen CLI, which turns a device inventory
// into a bookmarks file without running the web server.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/exporter-bookmarks/internal/config"
	"github.com/JonMunkholm/exporter-bookmarks/internal/core"
	"github.com/JonMunkholm/exporter-bookmarks/internal/logging"
)

// Exit codes.
const (
	exitError = 1
	exitUsage = 2
)

func main() {
	// A missing .env is fine; flags and the environment still apply.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		if core.Classify(err) == core.KindUsage {
			os.Exit(exitUsage)
		}
		os.Exit(exitError)
	}
}

type convertOptions struct {
	group     string
	output    string
	rules     string
	exporters []string
	dedupe    bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "bookmarkgen",
		Short:        "Generate browser bookmarks for exporter hosts in a device inventory",
		SilenceUsage: true,
	}
	root.AddCommand(newConvertCmd())
	return root
}

func newConvertCmd() *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert [inventory.csv|.xls|.xlsx]",
		Short: "Convert an inventory to a Netscape bookmarks file",
		Long: `convert reads a device inventory, keeps the rows whose exporter columns
name a known exporter type and writes them as bookmarks grouped by
group, country and location.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.group, "group", "g", "", "Top-level bookmark folder name (required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file path, or a directory for bookmarks_<group>.html (default: stdout)")
	cmd.Flags().StringVar(&opts.rules, "rules", "", "YAML file with exporter tokens and URL rules")
	cmd.Flags().StringSliceVar(&opts.exporters, "exporter", nil, "Exporter token to match (repeatable, replaces the defaults)")
	cmd.Flags().BoolVar(&opts.dedupe, "dedupe", false, "Write one bookmark per row and exporter type")
	cmd.MarkFlagRequired("group")

	return cmd
}

func runConvert(cmd *cobra.Command, inputPath string, opts convertOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	slog.SetDefault(logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format))

	if opts.rules != "" {
		cfg.Bookmarks.RulesFile = opts.rules
	}
	if len(opts.exporters) > 0 {
		cfg.Bookmarks.Exporters = opts.exporters
	}
	if cmd.Flags().Changed("dedupe") {
		cfg.Bookmarks.Deduplicate = opts.dedupe
	}

	svcOpts, err := core.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	service, err := core.NewService(svcOpts)
	if err != nil {
		return err
	}

	f, err := os.Open(inputPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &core.UsageError{Filename: inputPath, Reason: "file not found"}
		}
		return fmt.Errorf("open inventory: %w", err)
	}
	defer f.Close()

	doc, err := service.Convert(cmd.Context(), core.ConvertRequest{
		Filename: filepath.Base(inputPath),
		Group:    opts.group,
		Body:     f,
	})
	if err != nil {
		if msg := core.MapError(err); msg.Code != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s (Code: %s)\n", msg.Message, msg.Code)
		}
		return err
	}

	return writeDocument(cmd.OutOrStdout(), opts.output, doc)
}

// writeDocument writes doc to out when target is empty or "-", into target
// when it is a directory, and to the file target otherwise.
func writeDocument(out io.Writer, target string, doc *core.Document) error {
	if target == "" || target == "-" {
		_, err := out.Write(doc.Content)
		return err
	}

	if info, err := os.Stat(target); err == nil && info.IsDir() {
		target = filepath.Join(target, doc.Filename)
	}
	if err := os.WriteFile(target, doc.Content, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	slog.Info("bookmarks written", "path", target, "records", doc.Records)
	return nil
}
