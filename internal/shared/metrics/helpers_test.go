package metrics

import (
	"bytes"
	"testing"
)

func renderHistogram(t *testing.T, name string, snap histogramSnapshot) string {
	t.Helper()
	var buf bytes.Buffer
	writeHistogram(&buf, name, "test histogram", snap)
	return buf.String()
}
