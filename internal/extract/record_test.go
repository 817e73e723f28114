package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		in   string
		want Value
	}{
		{"230", IntValue(230)},
		{" 42 ", IntValue(42)},
		{"-7", IntValue(-7)},
		{"230.5", FloatValue(230.5)},
		{"0.0", FloatValue(0)},
		{"5.", FloatValue(5)},
		{"-12.25", FloatValue(-12.25)},
		{"99999999999999999999", FloatValue(1e20)},
		{"-99999999999999999999", FloatValue(-1e20)},
		{"Fault (3)", IntValue(3)},
		{"Grid error  (17)", IntValue(17)},
		{"v1.2 (4)", IntValue(4)},
		{"OK", TextValue("OK")},
		{"Running", TextValue("Running")},
		{"(3)", TextValue("(3)")},
		{"Fault(3)", TextValue("Fault(3)")},
		{"1.2.3", TextValue("1.2.3")},
		{"", TextValue("")},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Coerce(tc.in))
		})
	}
}

func TestCoerce_DotAlwaysFloat(t *testing.T) {
	for _, in := range []string{"1.0", "100.000", "3.14159", "1.5e3"} {
		v := Coerce(in)
		assert.Equal(t, KindFloat, v.Kind, "input %q", in)
	}
	for _, in := range []string{"1", "100", "007"} {
		v := Coerce(in)
		assert.Equal(t, KindInt, v.Kind, "input %q", in)
	}
}

func TestValue_IsNumeric(t *testing.T) {
	assert.True(t, IntValue(1).IsNumeric())
	assert.True(t, FloatValue(1.5).IsNumeric())
	assert.False(t, TextValue("OK").IsNumeric())
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Battery.Voltage", "battery_voltage"},
		{"  Inverter.Power.DC.Total  ", "inverter_power_dc_total"},
		{"Grid Frequency", "grid_frequency"},
		{"temp - inner", "temp_inner"},
		{"a..b", "a__b"},
		{"State-Of-Charge", "state_of_charge"},
		{"already_normalized_1", "already_normalized_1"},
		{"   ", ""},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeName(tc.in))
		})
	}
}

func TestNormalizeName_Idempotent(t *testing.T) {
	for _, in := range []string{
		"Battery.Voltage", "Grid Frequency", "a..b", "Ärger/Status", "x--y..z", "power_ac_l1",
	} {
		once := NormalizeName(in)
		assert.Equal(t, once, NormalizeName(once), "input %q", in)
	}
}

func TestMetricName(t *testing.T) {
	assert.Equal(t, "battery_voltage_volt", metricName("Battery.Voltage", "volt"))
	assert.Equal(t, "energy_kilowatt_hour", metricName("Energy", "kilowatt_hour"))
	assert.Equal(t, "power_kvar", metricName("Power", "kvar"))
	assert.Equal(t, "status", metricName("Status", ""))
	assert.Equal(t, "", metricName("  ", "volt"))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "int", KindInt.String())
	assert.Equal(t, "float", KindFloat.String())
	assert.Equal(t, "text", KindText.String())
}
