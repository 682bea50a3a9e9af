package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jengzang/lastmile-backend-go/internal/config"
	"github.com/jengzang/lastmile-backend-go/internal/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool
	dataPath   string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lastmile",
	Short: "Last mile delivery analytics backend",
	Long: `lastmile loads a last mile delivery export (CSV or XLSX), cleans it and
serves the delivery dashboard: KPIs, delivery time and agent performance,
weather and traffic impact, geography and recommendations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dataPath != "" {
			cfg.Data.Path = dataPath
		}

		logger, err = logging.New(cfg.Logging, verbose)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "Delivery data file (overrides data.path)")

	rootCmd.AddCommand(serveCmd, reportCmd, exportCmd, tokenCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
