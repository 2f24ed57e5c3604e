// Package daemon runs the control loop: it ticks the light engine,
// publishes device commands over MQTT and mirrors state to Redis.
package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/BlueberryDS/aquarium-control/internal/clouds"
	"github.com/BlueberryDS/aquarium-control/internal/engine"
	"github.com/BlueberryDS/aquarium-control/internal/lightconfig"
	"github.com/BlueberryDS/aquarium-control/pkg/config"
	"github.com/BlueberryDS/aquarium-control/pkg/mqtt"
	"github.com/BlueberryDS/aquarium-control/pkg/redis"
)

// telemetryListMax bounds the Redis telemetry list.
const telemetryListMax = 1000

// Agent owns the control loop. The clouds process and the engine are
// only touched from the loop goroutine, which keeps the stochastic
// state single-owner.
type Agent struct {
	mqtt   mqtt.Client
	redis  redis.Client
	cfg    *config.Config
	file   *lightconfig.File
	logger *slog.Logger

	clouds *clouds.Process
	engine *engine.Engine

	// Engine is rebuilt when the resolve date rolls over so the
	// date-versioned config interpolation stays current.
	engineDay time.Time

	sessionID string

	ticker   *time.Ticker
	stopChan chan struct{}

	// Test mode compresses one daylight window into TestWindowSeconds,
	// measured from this monotonic base.
	testStart time.Time
}

// NewAgent creates a new daemon agent with the given dependencies
func NewAgent(mqttClient mqtt.Client, redisClient redis.Client, cfg *config.Config, file *lightconfig.File, logger *slog.Logger) *Agent {
	return &Agent{
		mqtt:      mqttClient,
		redis:     redisClient,
		cfg:       cfg,
		file:      file,
		logger:    logger,
		clouds:    clouds.NewProcess(dayTypesFromConfig(file.Constants.Clouds), optionsFromConfig(file.Constants.Clouds)),
		sessionID: uuid.NewString(),
		stopChan:  make(chan struct{}),
	}
}

// Start starts the control loop and blocks until the context is cancelled
func (a *Agent) Start(ctx context.Context) error {
	a.logger.Info("Starting aquarium daemon",
		"service_name", a.cfg.ServiceName,
		"session_id", a.sessionID,
		"tick_interval_sec", a.cfg.TickIntervalSec,
		"test_mode", a.cfg.TestMode)

	// Connect to MQTT broker
	if err := a.mqtt.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to MQTT: %w", err)
	}

	// Verify Redis connection
	if err := a.redis.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}

	if a.cfg.OffOnce {
		a.logger.Info("Off-once requested, publishing off commands and exiting")
		return a.publishOff()
	}

	if err := a.refreshEngine(time.Now()); err != nil {
		return fmt.Errorf("failed to build light engine: %w", err)
	}

	a.testStart = time.Now()
	a.startTickLoop()

	a.logger.Info("Aquarium daemon started and ready")

	// Block until context is cancelled
	<-ctx.Done()
	a.logger.Info("Aquarium daemon stopping")

	return nil
}

// Stop gracefully stops the daemon. A final off command is published
// so the tank is never left lit by a dead controller.
func (a *Agent) Stop() error {
	a.logger.Info("Stopping aquarium daemon")

	if a.ticker != nil {
		a.ticker.Stop()
	}
	close(a.stopChan)

	if err := a.publishOff(); err != nil {
		a.logger.Error("Failed to publish shutdown off command", "error", err)
	}

	// Disconnect from MQTT
	a.mqtt.Disconnect()

	// Close Redis connection
	if err := a.redis.Close(); err != nil {
		a.logger.Error("Error closing Redis connection", "error", err)
		return err
	}

	a.logger.Info("Aquarium daemon stopped")
	return nil
}

// startTickLoop starts the periodic engine evaluation
func (a *Agent) startTickLoop() {
	interval := time.Duration(a.cfg.TickIntervalSec * float64(time.Second))
	if a.cfg.TestMode {
		// Accelerated runs need enough samples inside the window.
		interval = time.Second
	}
	a.ticker = time.NewTicker(interval)

	go func() {
		a.logger.Info("Starting tick loop", "interval", interval)
		for {
			select {
			case <-a.ticker.C:
				a.tick()
			case <-a.stopChan:
				return
			}
		}
	}()
}

// tick evaluates one engine frame and pushes it out
func (a *Agent) tick() {
	now := time.Now()

	if err := a.refreshEngine(now); err != nil {
		a.logger.Error("Failed to refresh light engine", "error", err)
		return
	}

	frame := a.engine.Sample(now, a.curveTime(now))

	if err := a.publishFrame(frame); err != nil {
		a.logger.Error("Failed to publish light commands", "error", err)
	}

	// Redis is a mirror; failures are logged, never fatal to the loop.
	a.mirrorFrame(frame)

	a.logger.Debug("Tick",
		"time_hours", frame.TimeHours,
		"on", frame.On,
		"brightness", frame.Brightness,
		"cct", frame.CCT,
		"dominant", frame.Dominant,
		"cloud_factor", frame.CloudFactor,
		"day_type", frame.DayType)
}

// curveTime returns the local curve time in hours for an instant. Test
// mode compresses one daylight window into TestWindowSeconds.
func (a *Agent) curveTime(now time.Time) float64 {
	if !a.cfg.TestMode {
		return float64(now.Hour()) +
			float64(now.Minute())/60.0 +
			float64(now.Second())/3600.0
	}

	win := a.engine.Sun().Window()
	elapsed := now.Sub(a.testStart).Seconds()
	cycle := elapsed / a.cfg.TestWindowSeconds
	frac := cycle - float64(int(cycle))
	t := win.Start + frac*a.engine.Sun().Length()
	if t >= 24.0 {
		t -= 24.0
	}
	return t
}

// refreshEngine rebuilds the engine when the resolve date changes
func (a *Agent) refreshEngine(now time.Time) error {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if a.engine != nil && day.Equal(a.engineDay) {
		return nil
	}

	resolved, err := a.file.ResolveFor(day)
	if err != nil {
		return fmt.Errorf("failed to resolve lighting config for %s: %w", day.Format("2006-01-02"), err)
	}

	a.engine = engine.New(resolved, a.file.Constants.Device, a.clouds, a.logger)
	a.engineDay = day

	a.logger.Info("Light engine configured",
		"date", day.Format("2006-01-02"),
		"window_start", a.engine.Sun().Window().Start,
		"window_hours", a.engine.Sun().Length(),
		"peak_brightness", a.engine.Sun().PeakBrightness())

	return nil
}

// publishFrame publishes the scalar and RGBW device commands plus the
// retained state message
func (a *Agent) publishFrame(frame engine.Frame) error {
	timestamp := time.Now().Format(time.RFC3339)

	brightnessMsg := map[string]interface{}{
		"id":        uuid.NewString(),
		"session":   a.sessionID,
		"on":        frame.On,
		"value":     frame.Brightness,
		"timestamp": timestamp,
	}
	if err := a.publishJSON(mqtt.TopicCommandBrightness, false, brightnessMsg); err != nil {
		return err
	}

	cctMsg := map[string]interface{}{
		"id":        uuid.NewString(),
		"session":   a.sessionID,
		"value":     frame.CCT,
		"source":    string(frame.Dominant),
		"timestamp": timestamp,
	}
	if err := a.publishJSON(mqtt.TopicCommandColorTemp, false, cctMsg); err != nil {
		return err
	}

	rgbwMsg := map[string]interface{}{
		"id":        uuid.NewString(),
		"session":   a.sessionID,
		"on":        frame.RGBWOn,
		"r":         frame.RGBW.R,
		"g":         frame.RGBW.G,
		"b":         frame.RGBW.B,
		"w":         frame.RGBW.W,
		"timestamp": timestamp,
	}
	if err := a.publishJSON(mqtt.TopicCommandRGBW, false, rgbwMsg); err != nil {
		return err
	}

	stateMsg := map[string]interface{}{
		"session":      a.sessionID,
		"time_hours":   frame.TimeHours,
		"on":           frame.On,
		"brightness":   frame.Brightness,
		"cct":          frame.CCT,
		"dominant":     string(frame.Dominant),
		"rgbw_on":      frame.RGBWOn,
		"rgbw":         []int{frame.RGBW.R, frame.RGBW.G, frame.RGBW.B, frame.RGBW.W},
		"cloud_factor": frame.CloudFactor,
		"day_type":     frame.DayType,
		"moon_on":      frame.MoonState.On,
		"moon_phase":   frame.MoonState.Phase.PhaseFraction,
		"timestamp":    timestamp,
	}
	return a.publishJSON(mqtt.TopicStateLight, true, stateMsg)
}

// publishOff publishes off commands on every device channel
func (a *Agent) publishOff() error {
	timestamp := time.Now().Format(time.RFC3339)

	offScalar := map[string]interface{}{
		"id":        uuid.NewString(),
		"session":   a.sessionID,
		"on":        false,
		"value":     0,
		"timestamp": timestamp,
	}
	if err := a.publishJSON(mqtt.TopicCommandBrightness, false, offScalar); err != nil {
		return err
	}

	offRGBW := map[string]interface{}{
		"id":        uuid.NewString(),
		"session":   a.sessionID,
		"on":        false,
		"r":         0,
		"g":         0,
		"b":         0,
		"w":         0,
		"timestamp": timestamp,
	}
	return a.publishJSON(mqtt.TopicCommandRGBW, false, offRGBW)
}

func (a *Agent) publishJSON(topic string, retained bool, msg map[string]interface{}) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message for %s: %w", topic, err)
	}
	if err := a.mqtt.Publish(topic, 0, retained, payload); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// mirrorFrame mirrors the computed state to Redis for dashboards
func (a *Agent) mirrorFrame(frame engine.Frame) {
	ctx := context.Background()

	payload, err := json.Marshal(frame)
	if err != nil {
		a.logger.Error("Failed to marshal frame for Redis", "error", err)
		return
	}

	if err := a.redis.Set(ctx, redis.LightStateKey(), payload, 0); err != nil {
		a.logger.Warn("Failed to mirror light state", "error", err)
	}
	if err := a.redis.Set(ctx, redis.DayTypeKey(), frame.DayType, 24*time.Hour); err != nil {
		a.logger.Warn("Failed to mirror day type", "error", err)
	}

	if err := a.redis.LPush(ctx, redis.TelemetryKey(), payload); err != nil {
		a.logger.Warn("Failed to push telemetry", "error", err)
		return
	}
	if err := a.redis.LTrim(ctx, redis.TelemetryKey(), 0, telemetryListMax-1); err != nil {
		a.logger.Warn("Failed to trim telemetry list", "error", err)
	}
}

// dayTypesFromConfig converts the YAML day-type block into the clouds
// package types. An empty block falls back to the built-in mix.
func dayTypesFromConfig(cfg lightconfig.CloudsConfig) []clouds.DayType {
	if len(cfg.DayTypes) == 0 {
		return nil
	}
	out := make([]clouds.DayType, 0, len(cfg.DayTypes))
	for _, dt := range cfg.DayTypes {
		out = append(out, clouds.DayType{
			Name:            dt.Name,
			Prob:            dt.Prob,
			CenterDrop:      dt.CenterDrop,
			Volatility:      dt.Volatility,
			MinDrop:         dt.MinDrop,
			MaxDrop:         dt.MaxDrop,
			CloudSpeed:      dt.CloudSpeed,
			BurstProbPerMin: dt.BurstProbPerMin,
			BurstStrength:   dt.BurstStrength,
			ShimmerBoost:    dt.ShimmerBoost,
		})
	}
	return out
}

// optionsFromConfig builds clouds options, falling back to the tuned
// defaults for unset fields
func optionsFromConfig(cfg lightconfig.CloudsConfig) clouds.Options {
	opts := clouds.DefaultOptions()
	if cfg.CloudTimeScaleSec > 0 {
		opts.CloudTimeScaleSec = cfg.CloudTimeScaleSec
	}
	if cfg.ShimmerTimeScaleSec > 0 {
		opts.ShimmerTimeScaleSec = cfg.ShimmerTimeScaleSec
	}
	if cfg.ShimmerAmp > 0 {
		opts.ShimmerAmp = cfg.ShimmerAmp
	}
	if cfg.ShimmerVolatility > 0 {
		opts.ShimmerVolatility = cfg.ShimmerVolatility
	}
	if cfg.MaxDtSec > 0 {
		opts.MaxDtSec = cfg.MaxDtSec
	}
	return opts
}
