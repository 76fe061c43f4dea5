package cli

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/me/loginhub/internal/config"
	"github.com/me/loginhub/internal/logging"
)

var (
	flagConfig    string
	flagAPI       string
	flagStateDir  string
	flagTab       string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
	app    *console
)

var validTabID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// defaultTab identifies the terminal the CLI runs in. Each shell is a tab:
// the master flag written in one shell is invisible to another.
func defaultTab() string {
	if s := os.Getenv(config.EnvPrefix + "TAB"); s != "" {
		return s
	}
	return strconv.Itoa(os.Getppid())
}

// NewRootCmd creates the root cobra command for the loginhub CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "loginhub",
		Short: "LoginHub admin console",
		Long:  "loginhub signs in to the LoginHub backend and manages tenant companies and their users.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadClient(flagConfig)
			if err != nil {
				return err
			}
			if flagAPI != "" {
				cfg.APIURL = flagAPI
			}
			if flagStateDir != "" {
				cfg.StateDir = flagStateDir
			}
			if flagLogLevel != "" {
				cfg.LogLevel = flagLogLevel
			}
			if flagDebug {
				cfg.LogLevel = "debug"
			}

			tab := flagTab
			if tab == "" {
				tab = defaultTab()
			}
			if !validTabID.MatchString(tab) {
				return fmt.Errorf("invalid tab id %q", tab)
			}

			logger = logging.NewLoggerWithWriter(logging.ParseLevel(cfg.LogLevel), flagLogFormat, cmd.ErrOrStderr())
			app = newConsole(cfg, tab, logger)
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default <state-dir>/config.yaml)")
	root.PersistentFlags().StringVar(&flagAPI, "api", "", "Backend URL (or LOGINHUB_API_URL env)")
	root.PersistentFlags().StringVar(&flagStateDir, "state-dir", "", "Session state directory (or LOGINHUB_STATE_DIR env)")
	root.PersistentFlags().StringVar(&flagTab, "tab", "", "Tab id scoping the master flag (default: parent process id, or LOGINHUB_TAB env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newCompaniesCmd(),
		newUsersCmd(),
	)

	return root
}
