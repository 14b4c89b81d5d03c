package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rawbytedev/aglio/config"
	"github.com/rawbytedev/aglio/pack"
)

var (
	configPath string
	verbose    bool

	cfgFile *config.File
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "aglio",
	Short: "Frame and unframe records with the aglio binary codec",
	Long: `aglio packs a demo record into a framed byte stream and unpacks
frames back out of one, driven by a YAML packager configuration.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfgFile, err = config.Load(configPath)
		} else {
			cfgFile = config.Default()
			err = nil
		}
		if err != nil {
			return fmt.Errorf("aglio: %w", err)
		}
		if verbose {
			cfgFile.LogLevel = "debug"
		}
		logger = cfgFile.Logger()
		return nil
	},
}

// Execute runs the root command. It is called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "aglio: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a packager config YAML file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func packagerFromConfig() (pack.Packager, error) {
	cfg, err := cfgFile.PackConfig()
	if err != nil {
		return pack.Packager{}, err
	}
	return pack.Packager{Cfg: cfg}, nil
}
