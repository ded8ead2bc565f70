package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/inventree/plugin-creator/internal/branding"
	"github.com/inventree/plugin-creator/internal/config"
	"github.com/inventree/plugin-creator/internal/ui"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagDefault     bool
	flagOutput      string
	flagSkipInstall bool
	flagNoSave      bool
	flagConfig      string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` asks a few questions about a new InvenTree plugin
(name, author, license, mixins, frontend code, CI) and generates a ready to
install plugin package in the output directory.

Answers are remembered in the config file and offered as defaults next time.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCreate,
}

func init() {
	rootCmd.Flags().BoolVar(&flagDefault, "default", false, "Use stored or default values for every prompt (non-interactive)")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", ".", "Output directory")
	rootCmd.Flags().BoolVar(&flagSkipInstall, "skip-install", false, "Do not install frontend dependencies")
	rootCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not remember the answers for the next run")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/"+branding.HomeDir()+"/config.yaml)")
}

// Execute runs the root command with build info injected via ldflags. An
// interrupt cancels the running command's context.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionLine() + "\n")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		ui.New(os.Stderr).Error("%v", err)
	}
	return err
}

// configStore returns the store selected by --config, PLUGIN_CREATOR_CONFIG
// or the default location, in that order.
func configStore() (*config.Store, error) {
	path := flagConfig
	if path == "" {
		path = config.FilePath()
	}
	return config.NewStore(path, buildVersion)
}
