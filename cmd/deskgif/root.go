package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oukeidos/deskgif/internal/apperrors"
	"github.com/oukeidos/deskgif/internal/cleanup"
	"github.com/oukeidos/deskgif/internal/config"
	"github.com/oukeidos/deskgif/internal/files"
	"github.com/oukeidos/deskgif/internal/library"
	"github.com/oukeidos/deskgif/internal/logger"
	"github.com/oukeidos/deskgif/internal/version"
)

type rootOptions struct {
	libraryPath string
	logLevel    string
	logFilePath string
}

func execute() {
	cmd := newRootCmd()
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", apperrors.Detail(err))
	}
	if cleanupErr := cleanup.RunAll(); cleanupErr != nil {
		fmt.Fprintln(os.Stderr, cleanupErr)
		if err == nil {
			err = cleanupErr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "deskgif",
		Short: "Manage the DeskGIF overlay library",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				_ = cmd.Usage()
				return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			if hasAnyFlagSet(cmd) {
				_ = cmd.Usage()
				return fmt.Errorf("a command is required")
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogging(opts)
		},
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Version = version.Info()
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetUsageTemplate(rootUsageTemplate)

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.libraryPath, "library", "", "Library file (default: "+config.DefaultLibraryPath()+")")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	pf.StringVar(&opts.logFilePath, "log-file", "", "Also write JSON logs to this file")

	cmd.AddCommand(
		newAboutCmd(),
		newListCmd(opts),
		newAddCmd(opts),
		newRemoveCmd(opts),
		newSetCmd(opts),
		newShowCmd(opts),
		newThumbCmd(),
		newCheckCmd(opts),
		newLicensesCmd(),
	)

	cmd.InitDefaultCompletionCmd()
	for _, sub := range cmd.Commands() {
		if sub.Name() == "completion" {
			sub.SetUsageTemplate(subcommandUsageTemplate)
			break
		}
	}

	return cmd
}

func initLogging(opts *rootOptions) error {
	level, err := logger.ParseLevel(opts.logLevel)
	if err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	var logFileW io.Writer
	if opts.logFilePath != "" {
		if err := files.RejectSymlinkPath(opts.logFilePath); err != nil {
			return err
		}
		f, err := os.OpenFile(opts.logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.Register(f.Close)
		logFileW = f
	}
	logger.Init(level, logFileW)
	return nil
}

func (o *rootOptions) resolvedLibraryPath() string {
	if o.libraryPath != "" {
		return o.libraryPath
	}
	return config.DefaultLibraryPath()
}

func openStore(opts *rootOptions) (*library.Store, error) {
	return library.Open(opts.resolvedLibraryPath(), library.Options{})
}

func hasAnyFlagSet(cmd *cobra.Command) bool {
	changed := false
	cmd.Flags().Visit(func(_ *pflag.Flag) {
		changed = true
	})
	return changed
}
