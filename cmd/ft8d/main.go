// Command ft8d decodes FT8 from a baseband I/Q stream, following
// kiwi_wspr/main.go's flag-plus-optional-config-file startup shape: a
// single band/frequency can be run straight from the command line, or a
// YAML file (--config) can describe several bands and reporter
// credentials at once, each run under its own internal/session.Controller.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/cwsl/wsprft8/internal/config"
	"github.com/cwsl/wsprft8/internal/dsp"
	"github.com/cwsl/wsprft8/internal/fec/ldpc"
	"github.com/cwsl/wsprft8/internal/ft8"
	"github.com/cwsl/wsprft8/internal/metrics"
	"github.com/cwsl/wsprft8/internal/report"
	"github.com/cwsl/wsprft8/internal/sample"
	"github.com/cwsl/wsprft8/internal/session"
)

const version = "v0.1.0"

// ldpcMaxIters is the belief-propagation iteration cap (spec.md section
// 4.4's "up to max_iter, default 15").
const ldpcMaxIters = 15

func main() {
	var (
		callsign   = pflag.String("call_sign", "", "receiving station callsign")
		grid       = pflag.String("grid_location", "", "receiving station Maidenhead grid (AA00 form)")
		configFile = pflag.String("config", "", "optional YAML overlay for multi-band/reporter setup")
		showVer    = pflag.BoolP("version", "v", false, "print version and exit")
	)
	pflag.Parse()

	if *showVer {
		fmt.Printf("ft8d %s\n", version)
		os.Exit(0)
	}

	args := pflag.Args()
	if len(args) != 4 {
		log.Println("usage: ft8d --call_sign <CALL> --grid_location <AA00> <fft_size> <number_of_peaks> <file_prefix> <dial_freq_hz>")
		os.Exit(1)
	}
	fftSize, err := strconv.Atoi(args[0])
	if err != nil {
		log.Printf("bad fft_size %q: %v", args[0], err)
		os.Exit(1)
	}
	numPeaks, err := strconv.Atoi(args[1])
	if err != nil {
		log.Printf("bad number_of_peaks %q: %v", args[1], err)
		os.Exit(1)
	}
	filePrefix := args[2]
	dialFreqHz, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		log.Printf("bad dial_freq_hz %q: %v", args[3], err)
		os.Exit(1)
	}
	if fftSize != dsp.FT8.FFTSize {
		log.Printf("fft_size %d does not match the fixed FT8 ladder size %d", fftSize, dsp.FT8.FFTSize)
		os.Exit(1)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.ReceiverCallsign == "" {
		cfg.ReceiverCallsign = *callsign
	}
	if cfg.ReceiverLocator == "" {
		cfg.ReceiverLocator = *grid
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	metricsDecoder := metrics.NewDecoder()
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Listen, mux); err != nil {
				log.Printf("metrics: server stopped: %v", err)
			}
		}()
	}

	reporters := buildReporters(cfg, "FT8", filePrefix)
	for _, r := range reporters {
		if starter, ok := r.(interface{ Start() }); ok {
			starter.Start()
		}
	}
	reporter := session.Reporter(multiReporter(reporters))

	src := sample.NewStdinSource(os.Stdin, dsp.FT8.BaseBandHz, 14.0, 1.0)
	ht := ft8.NewHashTable()
	planner := dsp.NewFFTPlanner(dsp.FT8.FFTSize)
	decode := ft8DecodeFunc(dsp.FT8, planner, numPeaks, dialFreqHz, ht, metricsDecoder, filePrefix)

	mgr := session.NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	controller := session.NewController(filePrefix, src, decode, reporter)
	if err := mgr.Start(ctx, controller); err != nil {
		log.Fatalf("session: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("ft8d: received signal %v, shutting down", sig)
	cancel()
	mgr.StopAll()
	for _, r := range reporters {
		if stopper, ok := r.(interface{ Stop() }); ok {
			stopper.Stop()
		}
		if closer, ok := r.(interface{ Disconnect() }); ok {
			closer.Disconnect()
		}
	}
}

// multiReporter fans a spot out to every configured reporter, logging (not
// failing the caller on) the first error from each.
type multiReporter []session.Reporter

func (m multiReporter) Report(spot *session.Spot) error {
	var firstErr error
	for _, r := range m {
		if err := r.Report(spot); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func buildReporters(cfg *config.Config, mode, band string) []session.Reporter {
	var out []session.Reporter
	if cfg.PSKReporter.Enabled {
		addr := fmt.Sprintf("%s:%d", cfg.PSKReporter.Host, cfg.PSKReporter.Port)
		if cfg.PSKReporter.Host == "" {
			addr = ""
		}
		psk, err := report.NewPSKReporter(cfg.ReceiverCallsign, cfg.ReceiverLocator, addr)
		if err != nil {
			log.Printf("pskreporter: %v", err)
		} else {
			out = append(out, psk)
		}
	}
	if cfg.MQTT.Enabled {
		mq, err := report.NewMQTTPublisher(cfg.MQTT, mode, band)
		if err != nil {
			log.Printf("mqtt: %v", err)
		} else {
			out = append(out, mq)
		}
	}
	return out
}

// ft8CostasMarkers reports, for every one of the 79 channel symbol
// positions, whether it belongs to one of the three 7-symbol Costas sync
// groups (positions 0, 36, 72) rather than carrying a data token. Grounded
// on original_source/FT8Window.cc's costas[79] array in its remap function.
func ft8CostasMarkers() [ft8.NumSymbols]bool {
	var m [ft8.NumSymbols]bool
	for _, base := range [ft8.NumSync]int{0, ft8.SyncOffset, ft8.SyncOffset * 2} {
		for i := 0; i < ft8.SyncLength; i++ {
			m[base+i] = true
		}
	}
	return m
}

// ft8Codeword gray-demaps the 58 data-symbol tokens of an aligned FT8 frame
// into 174 hard-decision LLR values, skipping the three Costas groups.
// Grounded on FT8Window.cc's remap: each data symbol emits three LLRs, MSB
// first, using ft8.GrayMap as the token-to-symbol permutation.
func ft8Codeword(frame []int) []float32 {
	if len(frame) != ft8.NumSymbols {
		return nil
	}
	costas := ft8CostasMarkers()
	ll := make([]float32, ft8.CodewordBits)
	data := 0
	for i, tok := range frame {
		if costas[i] {
			continue
		}
		if tok < 0 || tok >= len(ft8.GrayMap) {
			return nil
		}
		sym := ft8.GrayMap[tok]
		ll[data*3+0] = llrBit(sym, 4)
		ll[data*3+1] = llrBit(sym, 2)
		ll[data*3+2] = llrBit(sym, 1)
		data++
	}
	if data != ft8.NumData {
		return nil
	}
	return ll
}

func llrBit(sym uint8, bit uint8) float32 {
	if sym&bit == 0 {
		return -4.99
	}
	return 4.99
}

// binFrequency converts an FFT bin index into a signed offset (Hz) from DC,
// the standard wrap for a complex-input FFT: bins past the Nyquist index
// represent negative frequencies.
func binFrequency(bin int, cfg dsp.ModeConfig) float64 {
	binHz := float64(cfg.BaseBandHz) / float64(cfg.FFTSize)
	if bin >= cfg.FFTSize/2 {
		return float64(bin-cfg.FFTSize) * binHz
	}
	return float64(bin) * binHz
}

// ft8DecodeFunc wires the FFT ladder, peak list, candidate/tokenize search,
// Costas alignment, LDPC decode, CRC check and message unpack into a
// session.DecodeFunc (spec.md section 4.8).
func ft8DecodeFunc(cfg dsp.ModeConfig, planner dsp.FFTPlanner, numPeaks int, dialFreqHz float64, ht *ft8.HashTable, m *metrics.Decoder, band string) session.DecodeFunc {
	return func(ctx context.Context, w *sample.Window) ([]session.Decoded, error) {
		grid := dsp.BuildLadder(w.Samples, cfg, planner)
		acc := dsp.AccumulateMagnitude(grid)
		peaks := dsp.PeakList(cfg, acc, numPeaks)

		var out []session.Decoded
		for _, peak := range peaks {
			select {
			case <-ctx.Done():
				return out, nil
			default:
			}

			cand := dsp.BuildCandidate(grid, peak.Bin)
			if !cand.IsValid() {
				continue
			}
			tokens := dsp.Tokenize(cand)
			if tokens == nil {
				continue
			}
			offset, score := dsp.BestCostasOffset(tokens)
			if score < 6 {
				continue
			}
			if offset+ft8.NumSymbols > len(tokens) {
				continue
			}
			frame := tokens[offset : offset+ft8.NumSymbols]

			codeword := ft8Codeword(frame)
			if codeword == nil {
				continue
			}
			plain91, err := ldpc.DecodePayload(codeword, ldpcMaxIters)
			if err != nil {
				continue
			}
			packed := ft8.PackBits(plain91, ft8.PayloadBits+ft8.CRCBits)
			if err := ft8.VerifyCRC(packed); err != nil {
				continue
			}
			msg, err := ft8.Unpack(plain91[:ft8.PayloadBits], ht)
			if err != nil {
				continue
			}
			m.RecordDecode("FT8", band)

			out = append(out, session.Decoded{
				Callsign: msg.Call2,
				Grid:     msg.Grid,
				FreqHz:   dialFreqHz + binFrequency(peak.Bin, cfg),
				SNRDB:    peak.SNRDB,
				Shift:    cand.Regression.Slope,
			})
		}
		return out, nil
	}
}
