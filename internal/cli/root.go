package cli

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/yieldwise/internal/modules/settings"
	"github.com/aristath/yieldwise/pkg/logger"
)

// rootOptions are the flags shared by every command
type rootOptions struct {
	profilePath string
	logLevel    string
}

func (o *rootOptions) logger() zerolog.Logger {
	return logger.New(logger.Config{Level: o.logLevel, Pretty: true, Output: os.Stderr})
}

func (o *rootOptions) loadProfile(log zerolog.Logger) (settings.Profile, error) {
	return settings.NewLoader(log).Load(o.profilePath)
}

// NewRootCommand builds the command tree writing results to out.
// Logs always go to stderr.
func NewRootCommand(out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "yieldwise",
		Short:        "Rental property investment analysis",
		Long:         "Analyze rental properties: cash flow, cap rate, cash-on-cash return, projections and a buy recommendation.",
		SilenceUsage: true,
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&opts.profilePath, "profile", os.Getenv("YIELDWISE_PROFILE"), "TOML assumption profile")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newAnalyzeCommand(opts),
		newAmortizeCommand(opts),
		newImportCommand(opts),
		newProfileCommand(opts),
	)
	return root
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := NewRootCommand(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
