package predictor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tphakala/go-tflite"

	"github.com/tphakala/potability-go/internal/conf"
	"github.com/tphakala/potability-go/internal/cpuspec"
	"github.com/tphakala/potability-go/internal/errors"
	"github.com/tphakala/potability-go/internal/logger"
	"github.com/tphakala/potability-go/internal/waterquality"
)

// TFLite runs a TensorFlow Lite classifier. The model must take a single
// float32 input tensor of nine elements and produce either one probability
// or two class scores.
type TFLite struct {
	mu          sync.Mutex
	model       *tflite.Model
	options     *tflite.InterpreterOptions
	interpreter *tflite.Interpreter
	threshold   float64
	outputs     int
	info        ModelInfo
	log         logger.Logger
}

// NewTFLite loads the model at path and allocates its interpreter.
func NewTFLite(path string, threshold float64, threads int, log logger.Logger) (*TFLite, error) {
	start := time.Now()

	modelData, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(err).
			Component("predictor").
			Category(errors.CategoryModelLoad).
			ModelContext(path, conf.ModelTypeTFLite).
			Timing("model-load", time.Since(start)).
			Build()
	}

	model := tflite.NewModel(modelData)
	if model == nil {
		return nil, errors.New(fmt.Errorf("cannot load TensorFlow Lite model")).
			Component("predictor").
			Category(errors.CategoryModelInit).
			ModelContext(path, conf.ModelTypeTFLite).
			Context("model_size_kb", len(modelData)/1024).
			Build()
	}

	threads = cpuspec.Detect().ThreadCount(threads)
	log.Debug("configuring TFLite interpreter", logger.Int("threads", threads))
	options := tflite.NewInterpreterOptions()
	options.SetNumThread(threads)
	options.SetErrorReporter(func(msg string, _ any) {
		log.Error("TFLite error", logger.String("message", msg))
	}, nil)

	t := &TFLite{
		model:     model,
		options:   options,
		threshold: threshold,
		log:       log,
	}

	t.interpreter = tflite.NewInterpreter(model, options)
	if t.interpreter == nil {
		_ = t.Close()
		return nil, initError(path, "cannot create interpreter")
	}
	if status := t.interpreter.AllocateTensors(); status != tflite.OK {
		_ = t.Close()
		return nil, initError(path, "tensor allocation failed")
	}

	if err := t.checkShapes(); err != nil {
		_ = t.Close()
		return nil, errors.New(err).
			Component("predictor").
			Category(errors.CategoryModelInit).
			ModelContext(path, conf.ModelTypeTFLite).
			Build()
	}

	t.info = ModelInfo{
		Backend:  conf.ModelTypeTFLite,
		Name:     filepath.Base(path),
		Path:     path,
		Inputs:   waterquality.FeatureCount,
		Outputs:  t.outputs,
		LoadedAt: time.Now(),
	}
	return t, nil
}

func initError(path, msg string) error {
	return errors.Newf("%s", msg).
		Component("predictor").
		Category(errors.CategoryModelInit).
		ModelContext(path, conf.ModelTypeTFLite).
		Build()
}

// checkShapes verifies the input takes the nine features and the output has one or two elements.
func (t *TFLite) checkShapes() error {
	input := t.interpreter.GetInputTensor(0)
	if input == nil {
		return fmt.Errorf("model has no input tensor")
	}
	if input.Type() != tflite.Float32 {
		return fmt.Errorf("input tensor type %v, expected float32", input.Type())
	}
	if n := elementCount(input); n != waterquality.FeatureCount {
		return fmt.Errorf("input tensor holds %d elements, expected %d", n, waterquality.FeatureCount)
	}

	output := t.interpreter.GetOutputTensor(0)
	if output == nil {
		return fmt.Errorf("model has no output tensor")
	}
	t.outputs = elementCount(output)
	if t.outputs != 1 && t.outputs != 2 {
		return fmt.Errorf("output tensor holds %d elements, expected 1 or 2", t.outputs)
	}
	return nil
}

func elementCount(tensor *tflite.Tensor) int {
	n := 1
	for i := range tensor.NumDims() {
		n *= tensor.Dim(i)
	}
	return n
}

// Predict runs one inference. Interpreter access is serialized.
func (t *TFLite) Predict(ctx context.Context, m waterquality.Measurements) (waterquality.Potability, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	features := m.Vector()
	input := make([]float32, len(features))
	for i, v := range features {
		input[i] = float32(v)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.interpreter == nil {
		return 0, predictionError(fmt.Errorf("interpreter is closed"), conf.ModelTypeTFLite)
	}

	inputTensor := t.interpreter.GetInputTensor(0)
	if inputTensor == nil {
		return 0, predictionError(fmt.Errorf("cannot get input tensor"), conf.ModelTypeTFLite)
	}
	copy(inputTensor.Float32s(), input)

	if status := t.interpreter.Invoke(); status != tflite.OK {
		return 0, predictionError(fmt.Errorf("tensor invoke failed: %v", status), conf.ModelTypeTFLite)
	}

	scores := t.interpreter.GetOutputTensor(0).Float32s()
	return labelFromScores(scores, t.threshold)
}

// labelFromScores converts model output to a label: a single probability is
// compared against threshold, two scores pick the larger.
func labelFromScores(scores []float32, threshold float64) (waterquality.Potability, error) {
	switch len(scores) {
	case 1:
		if float64(scores[0]) >= threshold {
			return waterquality.Potable, nil
		}
		return waterquality.NotPotable, nil
	case 2:
		if scores[1] > scores[0] {
			return waterquality.Potable, nil
		}
		return waterquality.NotPotable, nil
	default:
		return 0, predictionError(fmt.Errorf("unexpected output size %d", len(scores)), conf.ModelTypeTFLite)
	}
}

// Info returns model metadata.
func (t *TFLite) Info() ModelInfo {
	return t.info
}

// Close releases the interpreter and model.
func (t *TFLite) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.interpreter != nil {
		t.interpreter.Delete()
		t.interpreter = nil
	}
	if t.options != nil {
		t.options.Delete()
		t.options = nil
	}
	if t.model != nil {
		t.model.Delete()
		t.model = nil
	}
	return nil
}
