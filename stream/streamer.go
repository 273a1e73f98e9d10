package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/ledtrack/track"
)

const (
	maxPublishTimeout = 2 * time.Second
	// stateInterval limits how often a moving car republishes state.
	stateInterval = 250 * time.Millisecond
)

// ErrPublishTimeout means the broker did not acknowledge a publish in time.
var ErrPublishTimeout = errors.New("publish timed out")

// An Animation renders the frame to show at runtimeMs.
type Animation interface {
	CalculateFrame(runtimeMs int64) *Frame
}

// Streamer that streams RGB data frames to an ledrx device.
type Streamer struct {
	config    Config
	client    mqtt.Client
	animation Animation
	scene     *Scene
	signals   track.Interaction
	// publishes run on the loop goroutine, so never wait past one frame
	timeout time.Duration

	published   State
	publishedAt time.Duration
	hasState    bool
}

// NewStreamer creates an instance of a Streamer. The scene may be nil when
// animation is not a Scene; state is then never published.
func NewStreamer(config Config, client mqtt.Client, animation Animation, scene *Scene,
	signals track.Interaction) *Streamer {

	s := new(Streamer)
	s.config = config
	s.client = client
	s.animation = animation
	s.scene = scene
	s.signals = signals

	s.timeout = maxPublishTimeout
	if interval := config.FrameInterval(); interval > 0 && interval < s.timeout {
		s.timeout = interval
	}
	return s
}

// SendFrame sends a frame as binary over MQTT to an ledrx device, followed
// by the presentation state if it has changed. A hint change is published
// at once; other changes at most every stateInterval.
func (s *Streamer) SendFrame(now time.Duration) error {
	f := s.animation.CalculateFrame(now.Milliseconds())
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}

	if err := s.publish(s.config.Mqtt.Topics.Stream, 0, false, b); err != nil {
		return err
	}

	if s.scene == nil {
		return nil
	}

	state := s.scene.State()
	if s.hasState {
		if state == s.published {
			return nil
		}
		if state.Hint == s.published.Hint && now-s.publishedAt < stateInterval {
			return nil
		}
	}

	s.publishedAt = now
	return s.publishState(state)
}

// PublishState publishes the scene state as a retained JSON message.
func (s *Streamer) PublishState() error {
	if s.scene == nil {
		return nil
	}

	return s.publishState(s.scene.State())
}

func (s *Streamer) publishState(state State) error {
	b, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := s.publish(s.config.Mqtt.Topics.State, 1, true, b); err != nil {
		return err
	}

	s.published = state
	s.hasState = true
	return nil
}

func (s *Streamer) publish(topic string, qos byte, retained bool, payload []byte) error {
	token := s.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(s.timeout) {
		return fmt.Errorf("%w: %s", ErrPublishTimeout, topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func (s *Streamer) handleControl(client mqtt.Client, msg mqtt.Message) {
	log.Printf("Received msg %d on %s: %s\n", msg.MessageID(), msg.Topic(), msg.Payload())

	if err := DispatchControl(msg.Payload(), s.signals); err != nil {
		log.Println(err)
	}
}

// Subscribe listens for interaction signals on the control topic.
func (s *Streamer) Subscribe() error {
	token := s.client.Subscribe(s.config.Mqtt.Topics.Control, 0, s.handleControl)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", s.config.Mqtt.Topics.Control, token.Error())
	}
	return nil
}

// OnFrame is a frame hook that streams a frame and logs failures. Frames
// are skipped while the client is disconnected.
func (s *Streamer) OnFrame(now time.Duration) {
	if !s.client.IsConnected() {
		return
	}
	if err := s.SendFrame(now); err != nil {
		log.Println(err)
	}
}
