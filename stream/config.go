package stream

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledtrack/track"
	"gopkg.in/yaml.v2"
)

// Config is the YAML configuration of the track streamer.
type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		ClientID string `yaml:"clientID"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Topics   struct {
			Stream  string `yaml:"stream"`
			Control string `yaml:"control"`
			State   string `yaml:"state"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Api struct {
		Addr  string `yaml:"addr"`
		Pages string `yaml:"pages"`
	} `yaml:"api"`
	Leds struct {
		Count     int     `yaml:"count"`
		FrameRate float64 `yaml:"frameRate"`
	} `yaml:"leds"`
	Track struct {
		DurationMs   int64         `yaml:"durationMs"`
		PauseMs      int64         `yaml:"pauseMs"`
		HintProgress float64       `yaml:"hintProgress"`
		Closed       bool          `yaml:"closed"`
		Points       []track.Point `yaml:"points"`
	} `yaml:"track"`
	Colours struct {
		Back      string        `yaml:"back"`
		Car       string        `yaml:"car"`
		Hint      string        `yaml:"hint"`
		Highlight string        `yaml:"highlight"`
		Gradient  GradientTable `yaml:"gradient"`
	} `yaml:"colours"`
}

// DefaultConfig returns the configuration used for anything a file omits.
func DefaultConfig() Config {
	var c Config
	c.Mqtt.ClientID = "ledtrack"
	c.Mqtt.Topics.Stream = "home/track/stream"
	c.Mqtt.Topics.Control = "home/track/control"
	c.Mqtt.Topics.State = "home/track/state"
	c.Api.Addr = ":3000"
	c.Api.Pages = "client/dist"
	c.Leds.Count = 500
	c.Leds.FrameRate = 30
	c.Track.DurationMs = track.DefaultDuration.Milliseconds()
	c.Track.PauseMs = track.DefaultPause.Milliseconds()
	c.Track.HintProgress = track.DefaultHintProgress
	c.Colours.Back = "#000005"
	c.Colours.Car = "#808080"
	c.Colours.Hint = "#050510"
	c.Colours.Highlight = "#303030"
	return c
}

// LoadConfig reads the YAML file at path over the defaults.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return c, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("decode config %s: %w", path, err)
	}
	if c.Leds.Count < 0 || c.Leds.Count > math.MaxUint16 {
		return c, fmt.Errorf("leds.count %d must be between 0 and %d", c.Leds.Count, math.MaxUint16)
	}
	rate := c.Leds.FrameRate
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 || c.FrameInterval() <= 0 {
		return c, fmt.Errorf("leds.frameRate %v must give a positive frame interval", rate)
	}

	return c, nil
}

// FrameInterval returns the time between frames.
func (c Config) FrameInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.Leds.FrameRate)
}

// TrackOptions returns the animator timing.
func (c Config) TrackOptions() track.Options {
	return track.Options{
		Duration:     time.Duration(c.Track.DurationMs) * time.Millisecond,
		Pause:        time.Duration(c.Track.PauseMs) * time.Millisecond,
		HintProgress: c.Track.HintProgress,
	}
}

// Palette parses the configured colours.
func (c Config) Palette() (Palette, error) {
	p := DefaultPalette()
	for _, entry := range []struct {
		name string
		hex  string
		dst  *colorful.Color
	}{
		{"back", c.Colours.Back, &p.Back},
		{"car", c.Colours.Car, &p.Car},
		{"hint", c.Colours.Hint, &p.Hint},
		{"highlight", c.Colours.Highlight, &p.Highlight},
	} {
		colour, err := colorful.Hex(entry.hex)
		if err != nil {
			return p, fmt.Errorf("colours.%s: %w", entry.name, err)
		}
		*entry.dst = colour
	}

	if len(c.Colours.Gradient) > 0 {
		p.Gradient = c.Colours.Gradient
	}

	return p, nil
}
