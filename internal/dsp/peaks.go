package dsp

import (
	"math"
	"sort"
)

// Peak is one entry of the top-N magnitude peak list, carrying its computed
// SNR.
type Peak struct {
	Bin       int
	Magnitude float64
	SNRDB     float64
}

// NoiseFloor estimates the noise power from the accumulated per-bin
// magnitude, as the 30th-percentile magnitude over the non-signal region
// (FT8Window.cc's calculateSNR: for FT8, skips an ExcludeBandHz-wide band
// centred on bin n/2 of the accumulated spectrum; WSPR has no exclusion band
// and considers every bin).
func NoiseFloor(cfg ModeConfig, acc []float64) float64 {
	n := len(acc)
	excludeBins := 0
	if cfg.ExcludeBandHz > 0 {
		excludeBins = cfg.ExcludeBandHz * n / cfg.BaseBandHz
	}
	center := n / 2
	bound0 := center - excludeBins/2
	bound1 := center + excludeBins/2

	region := make([]float64, 0, n)
	for bin, m := range acc {
		if excludeBins > 0 && bin >= bound0 && bin <= bound1 {
			continue
		}
		region = append(region, m)
	}
	if len(region) == 0 {
		return 0
	}
	sort.Float64s(region)
	idx := int(0.30 * float64(len(region)))
	if idx >= len(region) {
		idx = len(region) - 1
	}
	return region[idx]
}

// SNR converts a bin magnitude and a noise floor into a dB figure using
// spec.md section 4.7's formula: 20log10(mag) - 20log10(noise) + bias, where
// bias is -17.0 dB for FT8 and -26.2 dB for WSPR (the ratio of the
// reporting-standard 2500/50 Hz USB bandwidth to each mode's symbol
// bandwidth, preserved verbatim from original_source/FT8Window.cc's
// calculateSNR).
func SNR(cfg ModeConfig, magnitude, noise float64) float64 {
	if magnitude <= 0 || noise <= 0 {
		return cfg.SNRBiasDB
	}
	return 20*math.Log10(magnitude) - 20*math.Log10(noise) + cfg.SNRBiasDB
}

// PeakList returns the top n bins by accumulated magnitude, each carrying
// its computed SNR against the shared noise floor.
func PeakList(cfg ModeConfig, acc []float64, n int) []Peak {
	noise := NoiseFloor(cfg, acc)
	all := make([]Peak, len(acc))
	for bin, m := range acc {
		all[bin] = Peak{Bin: bin, Magnitude: m, SNRDB: SNR(cfg, m, noise)}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Magnitude > all[j].Magnitude })
	if n > len(all) {
		n = len(all)
	}
	return append([]Peak(nil), all[:n]...)
}
