// Package config loads the YAML overlay the CLI binaries accept via
// --config, styled on decoder_config.go's DecoderConfig/DecoderBandConfig
// shape and kiwi_wspr/main.go's flag-plus-config-file layering: command-line
// flags set the single-session defaults (callsign, grid, dial frequency),
// while an optional YAML file can describe a full multi-band session list
// and reporter credentials for internal/session.Manager.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Mode names a decode mode for a configured band, mirroring decoder_config.go's
// DecoderMode but scoped to what this repository actually decodes.
type Mode string

const (
	ModeWSPR Mode = "WSPR"
	ModeFT8  Mode = "FT8"
)

// Band describes one mode/frequency session, the YAML analogue of
// decoder_config.go's DecoderBandConfig.
type Band struct {
	Name       string `yaml:"name"`
	Mode       Mode   `yaml:"mode"`
	DialFreq   uint64 `yaml:"dial_freq_hz"`
	Enabled    bool   `yaml:"enabled"`
	FFTSize    int    `yaml:"fft_size"`
	NumPeaks   int    `yaml:"number_of_peaks"`
	FilePrefix string `yaml:"file_prefix"`
}

// WSPRNetConfig enables the wsprnet.org reporter; Enabled is its only setting.
type WSPRNetConfig struct {
	Enabled bool `yaml:"enabled"`
}

// PSKReporterConfig enables the IPFIX UDP spot reporter.
type PSKReporterConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// MQTTConfig mirrors mqtt_publisher.go's MQTTConfig.
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         byte   `yaml:"qos"`
	Retain      bool   `yaml:"retain"`
}

// MetricsConfig enables the Prometheus exporter.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Config is the top-level YAML document accepted by --config.
type Config struct {
	ReceiverCallsign string            `yaml:"receiver_callsign"`
	ReceiverLocator  string            `yaml:"receiver_locator"`
	DumpDir          string            `yaml:"dump_dir"`
	DumpCompressed   bool              `yaml:"dump_compressed"`
	WSPRNet          WSPRNetConfig     `yaml:"wsprnet"`
	PSKReporter      PSKReporterConfig `yaml:"pskreporter"`
	MQTT             MQTTConfig        `yaml:"mqtt"`
	Metrics          MetricsConfig     `yaml:"metrics"`
	Bands            []Band            `yaml:"bands"`
}

// Load reads and parses a YAML config file. A missing path is not an error —
// callers fall back to CLI-flag-only defaults, matching kiwi_wspr/main.go's
// "config file is an optional overlay" behavior.
func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate applies decoder_config.go's Validate-style checks: reporting
// needs a callsign and locator, and every enabled band needs a nonzero
// frequency.
func (c *Config) Validate() error {
	if (c.WSPRNet.Enabled || c.PSKReporter.Enabled) && (c.ReceiverCallsign == "" || c.ReceiverLocator == "") {
		return fmt.Errorf("config: receiver_callsign and receiver_locator are required when a reporter is enabled")
	}
	for _, b := range c.Bands {
		if !b.Enabled {
			continue
		}
		if b.DialFreq == 0 {
			return fmt.Errorf("config: band %q: dial_freq_hz cannot be zero", b.Name)
		}
		if b.Mode != ModeWSPR && b.Mode != ModeFT8 {
			return fmt.Errorf("config: band %q: unknown mode %q", b.Name, b.Mode)
		}
	}
	return nil
}

// EnabledBands returns only the bands marked enabled, matching
// decoder_config.go's GetEnabledBands.
func (c *Config) EnabledBands() []Band {
	out := make([]Band, 0, len(c.Bands))
	for _, b := range c.Bands {
		if b.Enabled {
			out = append(out, b)
		}
	}
	return out
}
