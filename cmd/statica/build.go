package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eringen/statica"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the site",
	Long:  `Renders the content database through the active theme into the output directory.`,
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

		engine := statica.New(fc.siteConfig(),
			statica.WithLogger(log),
			statica.WithProgress(func(p statica.Progress) {
				log.Debug("progress", zap.Int("percent", p.Percent), zap.String("step", p.Message))
			}))

		result, err := engine.Build()
		if err != nil {
			return err
		}
		printSummary(result)
		if !result.Success() {
			return fmt.Errorf("build finished with %d error(s)", len(result.Errors))
		}
		return nil
	},
}

// printSummary writes the human-facing outcome line plus one line per
// accumulated error.
func printSummary(result *statica.BuildResult) {
	if result.Success() {
		color.Green("build succeeded: %d pages in %s", result.PagesWritten, result.Duration.Round(time.Millisecond))
		return
	}
	color.Red("build finished with errors: %d pages written, %d error(s)", result.PagesWritten, len(result.Errors))
	for _, e := range result.Errors {
		color.Yellow("  %s: %s", e.Message, e.Detail)
	}
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
