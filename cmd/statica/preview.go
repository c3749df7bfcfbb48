package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/statica"
)

var (
	previewAddr  string
	previewWatch bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Build the site and serve it locally",
	Long:  `Builds the site and serves the output directory over HTTP. With --watch, theme changes trigger a rebuild.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fc, err := loadConfig(configFile)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		log, err := newLogger(resolveLogSettings(fc))
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		defer log.Sync()

		engine := statica.New(fc.siteConfig(), statica.WithLogger(log))
		return engine.Preview(previewAddr, previewWatch)
	},
}

func init() {
	previewCmd.Flags().StringVar(&previewAddr, "addr", ":3000", "listen address")
	previewCmd.Flags().BoolVar(&previewWatch, "watch", false, "rebuild on theme changes")
	rootCmd.AddCommand(previewCmd)
}
