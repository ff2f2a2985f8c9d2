package metrics

import "testing"

func TestDecoderRecordMethodsDoNotPanic(t *testing.T) {
	d := NewDecoder()
	d.RecordDecode("FT8", "20m")
	d.RecordSpot("FT8", "20m", -12.5)
	d.RecordReportError("FT8", "20m", "pskreporter")
	d.RecordWindowDropped("20m")
	d.RecordDecodeDuration("FT8", "20m", 1.2)
}

func TestNilDecoderRecordMethodsAreNoOps(t *testing.T) {
	var d *Decoder
	d.RecordDecode("FT8", "20m")
	d.RecordSpot("FT8", "20m", -12.5)
	d.RecordReportError("FT8", "20m", "pskreporter")
	d.RecordWindowDropped("20m")
	d.RecordDecodeDuration("FT8", "20m", 1.2)
}
