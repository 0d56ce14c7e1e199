package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/ledtween/api"
	"github.com/matt-g-everett/ledtween/diag"
	"github.com/matt-g-everett/ledtween/metrics"
	"github.com/matt-g-everett/ledtween/stream"
	"github.com/matt-g-everett/ledtween/tween"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

type app struct {
	Config   stream.Config
	Client   mqtt.Client
	Streamer *stream.Streamer
	Api      *api.Api
	logger   *slog.Logger
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Stream animations to the led strip",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			level, _ := cmd.Flags().GetString("log-level")

			a, err := newApp(configPath, level)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.run(ctx)
		},
	}
	cmd.Flags().StringP("config", "c", "config.yaml", "YAML config file.")
	return cmd
}

func newApp(configPath, level string) (*app, error) {
	a := new(app)
	config, err := stream.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	a.Config = config
	if level == "" {
		level = config.LogLevel
	}
	a.logger = diag.NewLogger(diag.ParseLevel(level))
	slog.SetDefault(a.logger)
	mqtt.ERROR = slog.NewLogLogger(a.logger.Handler(), slog.LevelError)
	if diag.ParseLevel(level) <= slog.LevelDebug {
		mqtt.DEBUG = log.New(os.Stderr, "mqtt ", 0)
	}
	a.logger.Debug("config loaded", "path", configPath, "pixels", config.Strip.Pixels,
		"frameRate", config.Strip.FrameRate, "broker", config.Mqtt.URL)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	sched := tween.NewScheduler(
		tween.WithSettings(config.Tween),
		tween.WithLogger(a.logger),
		tween.WithReporter(diag.NewLogReporter(a.logger)),
		tween.WithObserver(m),
	)
	controller := stream.NewController(sched, a.logger, config.Strip.TransitionTime.Seconds(),
		stream.DefaultAnimations(sched, config.Strip.Pixels)...)

	options := mqtt.NewClientOptions().
		AddBroker(config.Mqtt.URL).
		SetClientID(config.Mqtt.ClientID).
		SetUsername(config.Mqtt.Username).
		SetPassword(config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(a.handleOnConnect).
		SetConnectionLostHandler(a.handleConnectionLost)
	a.Client = mqtt.NewClient(options)
	a.Streamer = stream.NewStreamer(config, a.Client, sched, controller,
		stream.WithLogger(a.logger), stream.WithFrameObserver(m))
	a.Api = api.NewApi(a.Streamer, reg, config.Api.StaticDir, a.logger)

	return a, nil
}

func (a *app) handleOnConnect(client mqtt.Client) {
	a.logger.Info("Connected", "broker", a.Config.Mqtt.URL)
	if err := a.Streamer.Subscribe(); err != nil {
		a.logger.Error("subscribe failed", "error", err)
	}
}

func (a *app) handleConnectionLost(client mqtt.Client, err error) {
	a.logger.Warn("connection lost", "error", err)
}

func (a *app) run(ctx context.Context) error {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer a.Client.Disconnect(250)

	go func() {
		if err := a.Api.Serve(ctx, a.Config.Api.Addr); err != nil {
			a.logger.Error("api server stopped", "error", err)
		}
	}()

	err := a.Streamer.Run(ctx)
	if errors.Is(err, context.Canceled) {
		a.logger.Info("shutting down")
		return nil
	}
	return err
}
