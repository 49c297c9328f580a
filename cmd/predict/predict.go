package predict

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tphakala/potability-go/internal/conf"
	"github.com/tphakala/potability-go/internal/logger"
	"github.com/tphakala/potability-go/internal/predictor"
	"github.com/tphakala/potability-go/internal/waterquality"
)

// Command creates a command for one-shot predictions. Nothing is stored.
func Command(settings *conf.Settings) *cobra.Command {
	var (
		input  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the potability of a single water sample",
		Long: "Run the configured model on one sample given as flags or as a JSON object " +
			"read from --input (use - for stdin) and print the label. The sample is not stored.",
		Example: "  potability predict --ph 7.08 --hardness 204.9 --solids 20791.3 --chloramines 7.3 \\\n" +
			"    --sulfate 368.5 --conductivity 564.3 --organic_carbon 10.4 --trihalomethanes 86.9 --turbidity 2.9\n" +
			"  potability predict --input sample.json --json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sample, err := readSample(cmd, input)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), settings, sample, asJSON)
		},
	}

	for _, name := range waterquality.FeatureNames {
		cmd.Flags().Float64(name, 0, fmt.Sprintf("Measured %s", name))
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Read the sample from a JSON file, - for stdin")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

// Result is printed by the predict command.
type Result struct {
	Potability   waterquality.Potability   `json:"potability"`
	Label        string                    `json:"label"`
	Measurements waterquality.Measurements `json:"measurements"`
	Model        predictor.ModelInfo       `json:"model"`
}

// readSample builds a sample from --input or from the measurement flags.
// Flags that were set explicitly override values read from the input.
func readSample(cmd *cobra.Command, input string) (waterquality.Sample, error) {
	var sample waterquality.Sample

	if input != "" {
		var r io.Reader = cmd.InOrStdin()
		if input != "-" {
			f, err := os.Open(input)
			if err != nil {
				return sample, fmt.Errorf("error opening input: %w", err)
			}
			defer f.Close()
			r = f
		}
		var err error
		if sample, err = waterquality.DecodeSample(r); err != nil {
			return sample, err
		}
	}

	for _, name := range waterquality.FeatureNames {
		if !cmd.Flags().Changed(name) {
			continue
		}
		v, err := cmd.Flags().GetFloat64(name)
		if err != nil {
			return sample, err
		}
		if err := sample.Set(name, v); err != nil {
			return sample, err
		}
	}
	return sample, nil
}

func run(ctx context.Context, out, errOut io.Writer, settings *conf.Settings, sample waterquality.Sample, asJSON bool) error {
	measurements, err := sample.Validate()
	if err != nil {
		return err
	}

	cfg := settings.LoggingConfig()
	cfg.Console = errOut
	cfg.File = nil
	central, err := logger.NewCentralLogger(cfg)
	if err != nil {
		return err
	}

	model := settings.Model
	model.Cache.Enabled = false
	p, err := predictor.New(&model, predictor.WithLogger(central.Module("predictor")))
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	label, err := p.Predict(ctx, measurements)
	if err != nil {
		return err
	}

	result := Result{
		Potability:   label,
		Label:        label.String(),
		Measurements: measurements,
		Model:        p.Info(),
	}
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	_, err = fmt.Fprintf(out, "potability: %d (%s)\n", int(result.Potability), result.Label)
	return err
}
