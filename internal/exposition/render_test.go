package exposition

import (
	"math"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obsidianstack/enpal-exporter/internal/extract"
)

var ts = time.Date(2023, 7, 4, 14, 15, 30, 0, time.UTC)

func rec(name string, v extract.Value) extract.Record {
	return extract.Record{Name: name, Value: v, Timestamp: ts}
}

func TestRender_Lines(t *testing.T) {
	out := Render([]extract.Record{
		rec("battery_voltage_volt", extract.FloatValue(52.4)),
		rec("inverter_state", extract.TextValue("Running")),
		rec("grid_frequency_hertz", extract.IntValue(50)),
		rec("inverter_error", extract.IntValue(3)),
	}, "192.168.1.10")

	want := `enpal_battery_voltage_volt{box="192.168.1.10"} 52.4 1688480130000
enpal_grid_frequency_hertz{box="192.168.1.10"} 50 1688480130000
enpal_inverter_error{box="192.168.1.10"} 3 1688480130000
`
	assert.Equal(t, want, out)
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "", Render(nil, "box"))
	assert.Equal(t, "", Render([]extract.Record{rec("status", extract.TextValue("OK"))}, "box"))
}

func TestRender_DuplicatesInOrder(t *testing.T) {
	out := Render([]extract.Record{
		rec("power_watt", extract.IntValue(2)),
		rec("power_watt", extract.IntValue(1)),
	}, "garage")

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `enpal_power_watt{box="garage"} 2 1688480130000`, lines[0])
	assert.Equal(t, `enpal_power_watt{box="garage"} 1 1688480130000`, lines[1])
}

func TestRender_EscapesLabel(t *testing.T) {
	out := Render([]extract.Record{rec("x", extract.IntValue(1))}, "my \"box\"\\\nroof")
	assert.Equal(t, `enpal_x{box="my \"box\"\\\nroof"} 1 1688480130000`+"\n", out)
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		v    extract.Value
		want string
	}{
		{extract.IntValue(-12), "-12"},
		{extract.FloatValue(230), "230"},
		{extract.FloatValue(0.125), "0.125"},
		{extract.FloatValue(1234567.5), "1234567.5"},
		{extract.FloatValue(math.Inf(1)), "+Inf"},
		{extract.FloatValue(math.Inf(-1)), "-Inf"},
		{extract.FloatValue(math.NaN()), "NaN"},
	}
	for _, tc := range tests {
		got, ok := formatValue(tc.v)
		assert.True(t, ok)
		assert.Equal(t, tc.want, got)
	}

	_, ok := formatValue(extract.TextValue("OK"))
	assert.False(t, ok)
}

func TestRender_ParsesAsExposition(t *testing.T) {
	out := Render([]extract.Record{
		rec("battery_voltage_volt", extract.FloatValue(52.4)),
		rec("energy_kilowatt_hour", extract.FloatValue(12345.6)),
		rec("inverter_error", extract.IntValue(3)),
	}, "roof")

	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, mfs, 3)

	mf := mfs["enpal_battery_voltage_volt"]
	require.NotNil(t, mf)
	assert.Equal(t, dto.MetricType_UNTYPED, mf.GetType())
	require.Len(t, mf.GetMetric(), 1)

	m := mf.GetMetric()[0]
	assert.Equal(t, 52.4, m.GetUntyped().GetValue())
	assert.Equal(t, int64(1688480130000), m.GetTimestampMs())
	require.Len(t, m.GetLabel(), 1)
	assert.Equal(t, BoxLabel, m.GetLabel()[0].GetName())
	assert.Equal(t, "roof", m.GetLabel()[0].GetValue())

	assert.Equal(t, 3.0, mfs["enpal_inverter_error"].GetMetric()[0].GetUntyped().GetValue())
}

func TestRender_ExtractedNamesAreValid(t *testing.T) {
	page := `<html><body><main><table>
<tr><td>07/04/2023 02:15:30PM</td><td>3-Phase.L1 Current</td><td>6.3</td><td>A</td></tr>
<tr><td>07/04/2023 02:15:30PM</td><td>Ünïcode Temp (inner)</td><td>21.5</td><td>°C</td></tr>
<tr><td>07/04/2023 02:15:30PM</td><td>Reactive..Power</td><td>12</td><td>kVAr/h</td></tr>
<tr><td>07/04/2023 02:15:30PM</td><td>1st</td><td>7</td><td></td></tr>
</table></main></body></html>`

	records, err := extract.Parse(strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, records, 4)

	lines := strings.Split(strings.TrimSuffix(Render(records, "box"), "\n"), "\n")
	require.Len(t, lines, 4)
	for _, line := range lines {
		name, _, _ := strings.Cut(line, "{")
		assert.True(t, model.IsValidMetricName(model.LabelValue(name)), "invalid name %q", name)
	}
}
