package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/potability-go/internal/conf"
)

// Command creates a command that prints the effective configuration.
func Command(settings *conf.Settings) *cobra.Command {
	var (
		defaults  bool
		path      bool
		writePath string
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long:  "Print the configuration after merging the config file, environment and flags. Secrets are masked.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case defaults:
				_, err := cmd.OutOrStdout().Write(conf.DefaultConfig())
				return err
			case path:
				configFile, err := resolvedConfigFile()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), configFile)
				return err
			case writePath != "":
				// Written unmasked so the file can be loaded again
				if err := conf.SaveYAMLConfig(writePath, settings); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.ErrOrStderr(), "Configuration written to", writePath)
				return err
			}

			data, err := conf.Dump(settings)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, "Print the built-in default config file instead")
	cmd.Flags().BoolVar(&path, "path", false, "Print the path of the config file in use")
	cmd.Flags().StringVar(&writePath, "write", "", "Write the effective configuration, secrets included, to the given file")
	cmd.MarkFlagsMutuallyExclusive("defaults", "path", "write")
	return cmd
}

// resolvedConfigFile prefers the file viper actually read and falls back to
// searching the default locations.
func resolvedConfigFile() (string, error) {
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}
	return conf.FindConfigFile()
}
