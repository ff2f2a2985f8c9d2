// Package dsp implements the FFT ladder, peak picking, regression, and
// spot-candidate tokenisation shared by both decode modes. Grounded on
// original_source/FT8Window.cc and WSPRWindow.cc (the doWork/calculateSNR
// pipeline) and original_source/FT8SpotCandidate.cc/SpotCandidate.cc (the
// candidate/tokenize algorithm); the teacher's own
// audio_extensions/ft8/waterfall.go contributes only the gonum FFT-library
// idiom, since its waterfall/Costas-sync pipeline implements a different
// (WSJT-X ft8_lib-style) decode algorithm than this spec's.
package dsp

import "gonum.org/v1/gonum/dsp/fourier"

// FFTPlanner computes a complex DFT of a fixed size. Spec.md section 9 treats
// the FFT backend as an external collaborator ("FFTW plans... "); this
// interface lets the ladder depend on that abstraction rather than a
// concrete library, matching the teacher's dependency-inversion style
// elsewhere (Source, FFTPlanner).
type FFTPlanner interface {
	// Size returns the planner's fixed transform length.
	Size() int
	// Transform computes the forward DFT of exactly Size() complex samples.
	Transform(samples []complex128) []complex128
}

// gonumFFT wraps gonum.org/v1/gonum/dsp/fourier.CmplxFFT, the library the
// teacher uses in audio_extensions/ft8/waterfall.go.
type gonumFFT struct {
	n   int
	fft *fourier.CmplxFFT
}

// NewFFTPlanner returns an FFTPlanner of size n backed by gonum's complex
// FFT.
func NewFFTPlanner(n int) FFTPlanner {
	return &gonumFFT{n: n, fft: fourier.NewCmplxFFT(n)}
}

func (g *gonumFFT) Size() int { return g.n }

func (g *gonumFFT) Transform(samples []complex128) []complex128 {
	return g.fft.Coefficients(nil, samples)
}
