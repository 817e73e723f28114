// Package exposition renders extracted readings as Prometheus text
// exposition lines:
//
//	enpal_<name>{box="<label>"} <value> <epoch_millis>
//
// One line per numeric record, in the order given. Text records are
// dropped. Duplicate names are written as-is.
package exposition

import (
	"math"
	"strconv"
	"strings"

	"github.com/prometheus/common/model"

	"github.com/obsidianstack/enpal-exporter/internal/extract"
)

const (
	// MetricPrefix is prepended to every normalized record name.
	MetricPrefix = "enpal_"
	// BoxLabel is the label that identifies the polled device.
	BoxLabel = "box"
	// ContentType is the media type of the rendered text.
	ContentType = "text/plain; version=0.0.4"
)

var labelEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, `"`, `\"`)

// Render returns the exposition text for records, labelled with box.
func Render(records []extract.Record, box string) string {
	var b strings.Builder
	label := labelEscaper.Replace(box)

	for _, rec := range records {
		value, ok := formatValue(rec.Value)
		if !ok {
			continue
		}
		b.WriteString(MetricPrefix + rec.Name)
		b.WriteString(`{` + BoxLabel + `="`)
		b.WriteString(label)
		b.WriteString(`"} `)
		b.WriteString(value)
		b.WriteByte(' ')
		b.WriteString(strconv.FormatInt(int64(model.TimeFromUnix(rec.Timestamp.Unix())), 10))
		b.WriteByte('\n')
	}
	return b.String()
}

// formatValue returns the sample text for numeric values and false for text.
func formatValue(v extract.Value) (string, bool) {
	switch v.Kind {
	case extract.KindInt:
		return strconv.FormatInt(v.Int, 10), true
	case extract.KindFloat:
		switch {
		case math.IsInf(v.Float, 1):
			return "+Inf", true
		case math.IsInf(v.Float, -1):
			return "-Inf", true
		case math.IsNaN(v.Float):
			return "NaN", true
		}
		return strconv.FormatFloat(v.Float, 'f', -1, 64), true
	default:
		return "", false
	}
}
