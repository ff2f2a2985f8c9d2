package dsp

// ModeConfig collects the mode-specific FFT-ladder geometry spec.md section
// 4.7 and external-interfaces table pin exactly: WSPR (WSPRWindow.h) and FT8
// (FT8Window.h) each hard-code their own constants in original_source rather
// than sharing a parameterised ladder, but the structure is identical, so
// this is factored into one table-driven implementation.
type ModeConfig struct {
	Name          string
	BaseBandHz    int     // sample rate of the baseband I/Q stream
	FFTSize       int     // N: bins per FFT
	Shifts        int     // number of sub-sample shifts searched
	ShiftStep     int     // step between searched shifts (1 for WSPR, 10 for FT8)
	FFTsPerShift  int     // FFTs run per shift (maximum, reached only at shift 0)
	NumSymbols    int     // nominal number of contiguous time slots a valid candidate spans
	Window        int     // number of adjacent bins collected around a peak (11 for both modes)
	NumTones      int     // tone alphabet size (4 WSPR, 8 FT8)
	BaselineBias  float64 // y-intercept bias subtracted before tokenising (-1.5 WSPR, -3.5 FT8)
	SNRBiasDB     float64 // constant subtracted from the 20log10 ratio (-17.0 FT8, -26.2 WSPR)
	ExcludeBandHz int     // noise-floor exclusion band, centred on bin n/2 (0 for WSPR: any bin is fair game)
}

// WSPR and FT8 hold the ladder geometry for each supported mode, taken
// directly from WSPRWindow.h/FT8Window.h's constant members.
var (
	WSPR = ModeConfig{
		Name:          "wspr",
		BaseBandHz:    375,
		FFTSize:       256,
		Shifts:        375,
		ShiftStep:     1,
		FFTsPerShift:  164,
		NumSymbols:    162,
		Window:        11,
		NumTones:      4,
		BaselineBias:  -1.5,
		SNRBiasDB:     -26.2,
		ExcludeBandHz: 0,
	}
	FT8 = ModeConfig{
		Name:          "ft8",
		BaseBandHz:    3200,
		FFTSize:       512,
		Shifts:        512,
		ShiftStep:     10,
		FFTsPerShift:  92,
		NumSymbols:    79,
		Window:        11,
		NumTones:      8,
		BaselineBias:  -3.5,
		SNRBiasDB:     -17.0,
		ExcludeBandHz: 2800,
	}
)
