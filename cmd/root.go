package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/potability-go/cmd/config"
	"github.com/tphakala/potability-go/cmd/predict"
	"github.com/tphakala/potability-go/cmd/serve"
	"github.com/tphakala/potability-go/internal/conf"
)

// RootCommand creates and returns the root command. Running it without a
// subcommand starts the HTTP service.
func RootCommand() *cobra.Command {
	settings := &conf.Settings{}

	rootCmd := &cobra.Command{
		Use:          "potability",
		Short:        "Water potability prediction service",
		SilenceUsage: true,
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd); err != nil {
		cobra.CheckErr(err)
	}

	serveCmd := serve.Command(settings)
	rootCmd.AddCommand(
		serveCmd,
		predict.Command(settings),
		config.Command(settings),
	)
	rootCmd.RunE = serveCmd.RunE

	// Config is loaded after flag parsing so --config and flag overrides apply
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := conf.Load()
		if err != nil {
			return err
		}
		*settings = *loaded
		return nil
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command) error {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to config file (default: search ., ~/.config/potability, /etc/potability)")
	flags.BoolP("debug", "d", false, "Enable debug output")
	flags.String("loglevel", "", "Log level: trace, debug, info, warn or error")
	flags.String("model", "", "Path to the .tflite or .json model")

	bindings := map[string]string{
		"config":        "config",
		"debug":         "debug",
		"logging.level": "loglevel",
		"model.path":    "model",
	}
	for key, name := range bindings {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}
	return nil
}
