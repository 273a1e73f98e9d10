package stream

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/ledtrack/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publication struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeToken struct {
	mqtt.Token
	err      error
	complete bool
}

func (t *fakeToken) Wait() bool                      { return t.complete }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return t.complete }
func (t *fakeToken) Error() error                    { return t.err }

type fakeClient struct {
	mqtt.Client
	published  []publication
	subscribed map[string]mqtt.MessageHandler
	err        error
	stalled    bool
	offline    bool
}

func (c *fakeClient) IsConnected() bool { return !c.offline }

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.published = append(c.published, publication{topic, qos, retained, payload.([]byte)})
	return &fakeToken{err: c.err, complete: !c.stalled}
}

func (c *fakeClient) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	if c.subscribed == nil {
		c.subscribed = make(map[string]mqtt.MessageHandler)
	}
	c.subscribed[topic] = callback
	return &fakeToken{complete: true}
}

type fakeMessage struct {
	mqtt.Message
	topic   string
	payload []byte
}

func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) MessageID() uint16 { return 1 }

func newTestStreamer(client *fakeClient, signals track.Interaction) (*Streamer, *Scene) {
	scene := newTestScene()
	scene.SetDashArray(100)
	scene.SetDashOffset(100)
	return NewStreamer(DefaultConfig(), client, scene, scene, signals), scene
}

func TestStreamerSendsFrames(t *testing.T) {
	client := &fakeClient{}
	s, _ := newTestStreamer(client, &recordedSignals{})

	require.NoError(t, s.SendFrame(33*time.Millisecond))
	require.Len(t, client.published, 2)
	p := client.published[0]
	assert.Equal(t, "home/track/stream", p.topic)
	assert.False(t, p.retained)
	assert.Len(t, p.payload, 2+11*3)
}

func TestStreamerPublishesStateOnHintChange(t *testing.T) {
	client := &fakeClient{}
	s, scene := newTestStreamer(client, &recordedSignals{})

	scene.Show()
	require.NoError(t, s.SendFrame(0))
	require.Len(t, client.published, 2)

	state := client.published[1]
	assert.Equal(t, "home/track/state", state.topic)
	assert.True(t, state.retained)
	var decoded State
	require.NoError(t, json.Unmarshal(state.payload, &decoded))
	assert.True(t, decoded.Hint)

	// Unchanged state publishes frames only.
	require.NoError(t, s.SendFrame(0))
	assert.Len(t, client.published, 3)

	// A hint change is published without waiting out the interval.
	scene.Hide()
	require.NoError(t, s.SendFrame(10*time.Millisecond))
	require.Len(t, client.published, 5)
	require.NoError(t, json.Unmarshal(client.published[4].payload, &decoded))
	assert.False(t, decoded.Hint)
}

func lastState(t *testing.T, client *fakeClient) State {
	t.Helper()
	for i := len(client.published) - 1; i >= 0; i-- {
		if client.published[i].topic == "home/track/state" {
			var decoded State
			require.NoError(t, json.Unmarshal(client.published[i].payload, &decoded))
			return decoded
		}
	}
	require.Fail(t, "no state published")
	return State{}
}

func TestStreamerPublishesMarkerAndProgress(t *testing.T) {
	client := &fakeClient{}
	s, scene := newTestStreamer(client, &recordedSignals{})

	require.NoError(t, s.SendFrame(0))
	assert.Equal(t, 0.0, lastState(t, client).Drawn)

	scene.SetDashOffset(20)
	scene.SetTransform(track.Transform{X: 80, Y: 0, Angle: 0})
	scene.SetScale(track.HoverScale)

	// Within the interval only frames go out.
	require.NoError(t, s.SendFrame(100*time.Millisecond))
	assert.Equal(t, 0.0, lastState(t, client).Drawn)

	require.NoError(t, s.SendFrame(stateInterval))
	state := lastState(t, client)
	assert.InDelta(t, 0.8, state.Drawn, 1e-9)
	assert.Equal(t, track.Transform{X: 80, Y: 0, Angle: 0}, state.Marker)
	assert.InDelta(t, track.HoverScale, state.Scale, 1e-9)

	count := len(client.published)
	require.NoError(t, s.SendFrame(10*stateInterval))
	assert.Len(t, client.published, count+1)
}

func TestStreamerPublishesHold(t *testing.T) {
	client := &fakeClient{}
	s, scene := newTestStreamer(client, &recordedSignals{})
	clock := &manualClock{}
	a := track.Setup(track.Stage{Present: true, Track: scene, Marker: scene, Hint: scene},
		clock, clock, track.DefaultOptions())
	require.True(t, a.Ready())

	clock.tick(0)
	require.NoError(t, s.SendFrame(0))
	clock.tick(8000)
	require.NoError(t, s.SendFrame(8 * time.Second))
	clock.tick(16000)
	require.NoError(t, s.SendFrame(16 * time.Second))

	state := lastState(t, client)
	assert.Equal(t, 1.0, state.Drawn)
	assert.Equal(t, track.Transform{X: 100, Y: 0}, state.Marker)
}

func TestStreamerSkipsFramesWhileOffline(t *testing.T) {
	client := &fakeClient{offline: true}
	s, _ := newTestStreamer(client, &recordedSignals{})

	s.OnFrame(0)
	assert.Empty(t, client.published)

	client.offline = false
	s.OnFrame(0)
	assert.NotEmpty(t, client.published)
}

func TestStreamerTimeoutBoundedByFrame(t *testing.T) {
	cfg := DefaultConfig()
	s := NewStreamer(cfg, &fakeClient{}, nil, nil, &recordedSignals{})
	assert.Equal(t, cfg.FrameInterval(), s.timeout)

	cfg.Leds.FrameRate = 0.1
	s = NewStreamer(cfg, &fakeClient{}, nil, nil, &recordedSignals{})
	assert.Equal(t, maxPublishTimeout, s.timeout)
}

func TestStreamerPublishErrors(t *testing.T) {
	failing := &fakeClient{err: errors.New("broker gone")}
	s, _ := newTestStreamer(failing, &recordedSignals{})
	assert.Error(t, s.SendFrame(0))

	stalled := &fakeClient{stalled: true}
	s, _ = newTestStreamer(stalled, &recordedSignals{})
	assert.ErrorIs(t, s.SendFrame(0), ErrPublishTimeout)
}

func TestStreamerControlSubscription(t *testing.T) {
	client := &fakeClient{}
	signals := &recordedSignals{}
	s, _ := newTestStreamer(client, signals)

	require.NoError(t, s.Subscribe())
	handler, ok := client.subscribed["home/track/control"]
	require.True(t, ok)

	handler(client, &fakeMessage{topic: "home/track/control", payload: []byte(`{"type":"restart"}`)})
	handler(client, &fakeMessage{topic: "home/track/control", payload: []byte(`{"type":"bogus"}`)})
	assert.Equal(t, []string{ControlRestart}, signals.calls)
}

func TestStreamerIdleAnimation(t *testing.T) {
	client := &fakeClient{}
	palette := DefaultPalette()
	idle := NewTwinkle(20, 5, palette.Car, palette.Back, 1)
	s := NewStreamer(DefaultConfig(), client, idle, nil, &recordedSignals{})

	require.NoError(t, s.SendFrame(0))
	require.NoError(t, s.PublishState())
	assert.Len(t, client.published, 1)
}
