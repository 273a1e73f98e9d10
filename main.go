package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/ledtrack/api"
	"github.com/matt-g-everett/ledtrack/stream"
	"github.com/matt-g-everett/ledtrack/track"
)

const idleParticles = 60

type app struct {
	Config     stream.Config
	Client     mqtt.Client
	Loop       *track.Loop
	Animator   *track.Animator
	Dispatcher *track.Dispatcher
	Streamer   *stream.Streamer
	Api        *api.Api
}

func newApp(config stream.Config) *app {
	a := new(app)
	a.Config = config
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Println("Connected")
	if err := a.Streamer.Subscribe(); err != nil {
		log.Println(err)
	}

	a.Loop.Post(func() {
		if err := a.Streamer.PublishState(); err != nil {
			log.Println(err)
		}
	})
}

// build wires the track scene, animator and streamer onto a new loop.
func (a *app) build() error {
	palette, err := a.Config.Palette()
	if err != nil {
		return err
	}

	a.Loop = track.NewLoop(a.Config.FrameInterval())

	var scene *stream.Scene
	var stage track.Stage
	var scaler track.Scaler
	if len(a.Config.Track.Points) > 0 {
		path := track.NewPolyline(a.Config.Track.Points, a.Config.Track.Closed)
		scene = stream.NewScene(path, a.Config.Leds.Count, palette)
		stage = track.Stage{Present: true, Track: scene, Marker: scene, Hint: scene}
		scaler = scene
	}

	a.Animator = track.Setup(stage, a.Loop, a.Loop, a.Config.TrackOptions())
	hover := track.NewHover(scaler, a.Loop)
	a.Dispatcher = track.NewDispatcher(a.Loop, a.Animator, hover)

	var animation stream.Animation
	if a.Animator.Ready() {
		animation = scene
	} else {
		animation = stream.NewTwinkle(a.Config.Leds.Count, idleParticles, palette.Car, palette.Back,
			time.Now().UnixNano())
		scene = nil
	}

	a.Streamer = stream.NewStreamer(a.Config, a.Client, animation, scene, a.Dispatcher)
	a.Loop.OnFrame(a.Streamer.OnFrame)
	a.Api = api.NewApi(a.Dispatcher, a.Config.Api.Pages)
	return nil
}

func (a *app) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The loop must be draining events before the on-connect handler posts.
	stopped := make(chan error, 1)
	go func() {
		stopped <- a.Loop.Run(ctx)
	}()

	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer a.Client.Disconnect(250)

	go func() {
		if err := a.Api.Serve(ctx, a.Config.Api.Addr); err != nil {
			log.Println(err)
		}
	}()

	err := <-stopped
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func main() {
	// mqtt.DEBUG = log.New(os.Stdout, "", 0)
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	flag.Parse()

	// Read the config
	config, err := stream.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Config: broker %s, %d LEDs at %v fps, %d track points",
		config.Mqtt.URL, config.Leds.Count, config.Leds.FrameRate, len(config.Track.Points))

	a := newApp(config)
	options := mqtt.NewClientOptions().
		AddBroker(config.Mqtt.URL).
		SetClientID(config.Mqtt.ClientID).
		SetUsername(config.Mqtt.Username).
		SetPassword(config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)

	if err := a.build(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx); err != nil {
		log.Fatal(err)
	}
}
