package serve

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/potability-go/internal/conf"
	"github.com/tphakala/potability-go/internal/service"
)

// Command creates the command that runs the HTTP API.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the potability prediction API",
		Long:  "Load the model, open the record store and serve the prediction API until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return service.Run(cmd.Context(), settings)
		},
	}

	if err := setupFlags(cmd); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the serve command.
func setupFlags(cmd *cobra.Command) error {
	cmd.Flags().String("listen", "", "Listen address of the HTTP API, e.g. 0.0.0.0:8000")
	cmd.Flags().Bool("telemetry", true, "Expose Prometheus metrics on /metrics")

	bindings := map[string]string{
		"webserver.listen":  "listen",
		"telemetry.enabled": "telemetry",
	}
	for key, name := range bindings {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("error binding flags: %w", err)
		}
	}
	return nil
}
