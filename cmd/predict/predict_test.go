package predict

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/potability-go/internal/conf"
	"github.com/tphakala/potability-go/internal/errors"
	"github.com/tphakala/potability-go/internal/waterquality"
)

func testSettings() *conf.Settings {
	s := &conf.Settings{}
	s.Model.Type = conf.ModelTypeTree
	s.Model.Path = filepath.Join("..", "..", "model", "water_quality_tree.json")
	s.Model.Threshold = 0.5
	s.Logging.Level = "error"
	return s
}

var sampleArgs = []string{
	"--ph", "7.08", "--hardness", "204.9", "--solids", "20791.3", "--chloramines", "7.3",
	"--sulfate", "368.5", "--conductivity", "564.3", "--organic_carbon", "10.4",
	"--trihalomethanes", "86.9", "--turbidity", "2.9",
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := Command(testSettings())
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPredictFromFlags(t *testing.T) {
	out, err := execute(t, "", sampleArgs...)
	require.NoError(t, err)
	assert.Regexp(t, `^potability: [01] \((not )?potable\)\n$`, out)
}

func TestPredictJSONOutput(t *testing.T) {
	out, err := execute(t, "", append(sampleArgs, "--json")...)
	require.NoError(t, err)

	var result Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Potability.Valid())
	assert.Equal(t, result.Potability.String(), result.Label)
	assert.InDelta(t, 7.08, result.Measurements.PH, 1e-9)
	assert.Equal(t, waterquality.FeatureCount, result.Model.Inputs)
}

func TestPredictFromStdinWithOverride(t *testing.T) {
	body := `{"ph": 0, "hardness": 204.9, "solids": 20791.3, "chloramines": 7.3, "sulfate": 368.5,
		"conductivity": 564.3, "organic_carbon": 10.4, "trihalomethanes": 86.9, "turbidity": 2.9}`

	_, err := execute(t, body, "--input", "-")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err), "ph of 0 must be rejected")

	out, err := execute(t, body, "--input", "-", "--ph", "6.5", "--json")
	require.NoError(t, err)
	var result Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.InDelta(t, 6.5, result.Measurements.PH, 1e-9)
}

func TestPredictMissingFields(t *testing.T) {
	_, err := execute(t, "", "--ph", "7")
	require.Error(t, err)

	var verr *waterquality.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, waterquality.FeatureCount-1)
}

func TestPredictMalformedInput(t *testing.T) {
	_, err := execute(t, "{not json", "--input", "-")
	require.Error(t, err)
	assert.ErrorIs(t, err, waterquality.ErrMalformed)
}
