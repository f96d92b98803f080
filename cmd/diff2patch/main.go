package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/madeddy/diff2patch/internal/d2p"
	"github.com/madeddy/diff2patch/internal/patch"
	"github.com/madeddy/diff2patch/internal/version"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	red    = color.New(color.FgHiRed, color.Bold).SprintFunc()
	yellow = color.New(color.FgHiYellow, color.Bold).SprintFunc()
)

var (
	flagDir     bool
	flagArchive string
	flagReport  string
	flagOutPath string
	flagIndepth bool
	flagIgnore  []string
	flagVerbose int
)

var rootCmd = &cobra.Command{
	Use:     "diff2patch OLD_DIR NEW_DIR",
	Short:   "Compare two directory trees and produce a patch",
	Long: `Diff2patch compares two directory trees, e.g. old/new, and collects
every object which is new or differing in the second tree. The outcome
can be written as a directory, packed into an archive or printed as a
report. Neither input tree is ever modified.`,
	Version: version.Detailed(),
	Args:    cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(viper.GetInt("verbose"))

		cfg := &d2p.Config{
			BaseDir:        args[0],
			TargetDir:      args[1],
			Shallow:        !viper.GetBool("indepth"),
			IgnorePatterns: flagIgnore,
			OutPath:        viper.GetString("outpath"),
			Confirm:        confirmOverwrite,
		}

		switch {
		case flagDir:
			cfg.Mode = d2p.ModeDir
		case flagArchive != "":
			format, err := patch.ParseArchiveFormat(flagArchive)
			if err != nil {
				return err
			}
			cfg.Mode = d2p.ModeArchive
			cfg.ArchiveFormat = format
		case flagReport != "":
			target, err := patch.ParseReportTarget(flagReport)
			if err != nil {
				return err
			}
			cfg.Mode = d2p.ModeReport
			cfg.ReportTarget = target
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		// config is good, errors from here are runtime failures
		cmd.SilenceUsage = true
		return d2p.Run(cfg)
	},
}

func init() {
	rootCmd.Flags().SortFlags = false
	rootCmd.Flags().BoolVarP(&flagDir, "dir", "d", false, "Output the diff to a directory")
	rootCmd.Flags().StringVarP(&flagArchive, "archive", "a", "", "Output the diff as archive: zip, tar, gz, zst")
	rootCmd.Flags().StringVarP(&flagReport, "report", "r", "", "Output the diff as report: console, file, both, json")
	rootCmd.Flags().StringVarP(&flagOutPath, "outpath", "o", "", "Output base path (defaults to the parent of NEW_DIR)")
	rootCmd.Flags().BoolVar(&flagIndepth, "indepth", false, "Compare file content instead of just metadata")
	rootCmd.Flags().StringArrayVarP(&flagIgnore, "ignore", "i", nil, "Extra ignore pattern (repeatable)")
	rootCmd.Flags().IntVar(&flagVerbose, "verbose", 1, "Info output level 0-2")

	rootCmd.MarkFlagsOneRequired("dir", "archive", "report")
	rootCmd.MarkFlagsMutuallyExclusive("dir", "archive", "report")
}

func bindConfig(cmd *cobra.Command) error {
	viper.BindPFlag("outpath", cmd.Flags().Lookup("outpath"))
	viper.BindPFlag("indepth", cmd.Flags().Lookup("indepth"))
	viper.BindPFlag("verbose", cmd.Flags().Lookup("verbose"))

	viper.SetEnvPrefix("D2P")
	viper.AutomaticEnv()
	return nil
}

func setupLogging(verbosity int) {
	var level slog.Level
	switch {
	case verbosity <= 0:
		level = slog.LevelWarn
	case verbosity == 1:
		level = slog.LevelInfo
	default:
		level = slog.LevelDebug
	}

	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})
	slog.SetDefault(slog.New(handler))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", red("ERROR"), err)
		os.Exit(1)
	}
}
