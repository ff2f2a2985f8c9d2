package report

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/cwsl/wsprft8/internal/config"
	"github.com/cwsl/wsprft8/internal/session"
)

// MQTTPublisher republishes every accepted spot to a configured MQTT topic,
// adapted from mqtt_publisher.go. This is outside spec.md's two mandated
// reporters (section 4.10) but is ambient enrichment the teacher always
// wires in alongside them; a nil *MQTTPublisher is a safe no-op, matching
// the teacher's own nil-receiver guards throughout that file.
type MQTTPublisher struct {
	client mqtt.Client
	cfg    config.MQTTConfig
	mode   string
	band   string
}

// decodeMessage is the wire format published to MQTT, matching
// WSPRDecodeMessage's field set but generalized across WSPR and FT8.
type decodeMessage struct {
	Mode      string    `json:"mode"`
	Band      string    `json:"band"`
	Callsign  string    `json:"callsign"`
	Locator   string    `json:"locator"`
	SNR       float64   `json:"snr"`
	Frequency float64   `json:"frequency"`
	Timestamp time.Time `json:"timestamp"`
	DBm       int       `json:"dbm,omitempty"`
}

func generateClientID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return "wsprft8_" + hex.EncodeToString(b)
}

// NewMQTTPublisher connects to the configured broker. Returns (nil, nil) if
// MQTT is disabled in cfg, so callers can always assign the result to a
// Reporter without a nil check at the call site.
func NewMQTTPublisher(cfg config.MQTTConfig, mode, band string) (*MQTTPublisher, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(generateClientID())
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(10 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		log.Printf("report.MQTTPublisher: connected to %s", cfg.Broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Printf("report.MQTTPublisher: connection lost: %v", err)
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("report.MQTTPublisher: connect: %w", token.Error())
	}

	return &MQTTPublisher{client: client, cfg: cfg, mode: mode, band: band}, nil
}

// Report implements session.Reporter. Topic structure:
// {prefix}/digital_modes/{mode}/{band}, matching mqtt_publisher.go's
// PublishWSPRDecode topic layout generalized across modes.
func (mp *MQTTPublisher) Report(spot *session.Spot) error {
	if mp == nil {
		return nil
	}
	if !mp.client.IsConnected() {
		return fmt.Errorf("report.MQTTPublisher: not connected")
	}

	msg := decodeMessage{
		Mode:      mp.mode,
		Band:      mp.band,
		Callsign:  spot.Callsign,
		Locator:   spot.Grid,
		SNR:       spot.SNRDB,
		Frequency: spot.FreqHz,
		Timestamp: spot.TimeStart,
		DBm:       spot.DBm,
	}
	topic := fmt.Sprintf("%s/digital_modes/%s/%s", mp.cfg.TopicPrefix, mp.mode, mp.band)
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("report.MQTTPublisher: marshal: %w", err)
	}

	token := mp.client.Publish(topic, mp.cfg.QoS, mp.cfg.Retain, data)
	go func() {
		if token.Wait() && token.Error() != nil {
			log.Printf("report.MQTTPublisher: publish to %s failed: %v", topic, token.Error())
		}
	}()
	return nil
}

// Disconnect gracefully closes the broker connection.
func (mp *MQTTPublisher) Disconnect() {
	if mp == nil || mp.client == nil || !mp.client.IsConnected() {
		return
	}
	mp.client.Disconnect(250)
	log.Println("report.MQTTPublisher: disconnected")
}
