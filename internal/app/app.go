// Package app wires the camera, hand detector and gesture pipeline together
// and routes the resulting actions to plugins or the native injector.
package app

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ayusman/slidehand/internal/capture"
	"github.com/ayusman/slidehand/internal/config"
	"github.com/ayusman/slidehand/internal/control"
	"github.com/ayusman/slidehand/internal/detector"
	"github.com/ayusman/slidehand/internal/inject"
	"github.com/ayusman/slidehand/internal/plugin"
	"github.com/ayusman/slidehand/internal/recording"
	"github.com/ayusman/slidehand/internal/store"
)

// Config holds the settings and collaborators of an App.
type Config struct {
	Settings config.Config
	// Store is optional; without it bindings, events and tuning are not persisted.
	Store *store.Store
}

// Status is the snapshot published to the API, websocket feed and tray.
type Status struct {
	control.Snapshot
	Enabled  bool   `json:"enabled"`
	Running  bool   `json:"running"`
	Detector string `json:"detector"`
	FPS      int    `json:"fps"`
}

// App is the running gesture controller.
type App struct {
	config Config

	// mu guards the pipeline, which is not safe for concurrent use.
	mu       sync.Mutex
	pipeline *control.Pipeline

	stateMu      sync.RWMutex
	camera       capture.Camera
	motion       *capture.MotionDetector
	detector     detector.Detector
	detectorName string
	enabled      bool
	fps          int
	stopCh       chan struct{}
	wg           sync.WaitGroup

	router   *Router
	actuator *queue
	recorder *recording.Recorder
	frames   frameBuffer

	// OnStatus, if set, is called after mode changes and executed actions.
	OnStatus func(Status)
}

// New builds an App from cfg. The detector is MediaPipe when available and
// the mock detector otherwise; a replay path replaces both camera and detector.
func New(cfg Config) (*App, error) {
	settings := cfg.Settings
	if cfg.Store != nil {
		t, err := cfg.Store.Settings().GetTuning(settings.Tuning())
		if err != nil {
			return nil, fmt.Errorf("load tuning: %w", err)
		}
		settings.ApplyTuning(t)
	}
	opts := settings.PipelineOptions()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		config: cfg,
		motion:  capture.NewMotionDetector(settings.Camera.MotionThreshold),
		fps:     capture.IdleFPS,
		enabled: true,
	}

	a.router = &Router{
		Plugins: plugin.NewManager(settings.PluginDir()),
		Exec:    plugin.NewExecutor(plugin.DefaultTimeout),
	}
	if inj, err := inject.New(); err == nil {
		a.router.Injector = inj
		log.Println("Using native input injection")
	} else if !errors.Is(err, inject.ErrUnsupported) {
		log.Printf("Native input injection unavailable: %v", err)
	}

	var events EventSink
	if cfg.Store != nil {
		a.router.Bindings = cfg.Store.Bindings()
		events = cfg.Store.Events()
	}
	a.actuator = newQueue(a.router, events)

	a.pipeline = control.NewPipeline(opts, a.actuator)
	a.pipeline.Dispatcher().OnEvent = a.onEvent

	if replay := settings.Recording.Replay; replay != "" {
		rd, err := recording.NewReplayDetector(replay, settings.Recording.Loop)
		if err != nil {
			return nil, fmt.Errorf("open replay %s: %w", replay, err)
		}
		a.camera = capture.NewBlankCamera(capture.DefaultWidth, capture.DefaultHeight)
		a.detector, a.detectorName = rd, "replay"
		log.Printf("Replaying %d recorded frames from %s", rd.Len(), replay)
	} else {
		a.camera = capture.NewCamera(capture.Options{
			DeviceID: settings.Camera.DeviceID,
			Mirror:   settings.Camera.Mirror,
			FPS:      capture.IdleFPS,
		})
		if mp, err := detector.NewMediaPipeDetector(settings.Detector); err == nil {
			a.detector, a.detectorName = mp, "mediapipe"
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			a.detector, a.detectorName = detector.NewMockDetector(), "mock"
		}
	}

	if path := settings.Recording.Path; path != "" {
		rec, err := recording.NewRecorder(path)
		if err != nil {
			return nil, fmt.Errorf("open recording %s: %w", path, err)
		}
		a.recorder = rec
		log.Printf("Recording landmarks to %s", path)
	}

	a.actuator.start()
	return a, nil
}

// DiscoverPlugins scans the plugin directory.
func (a *App) DiscoverPlugins() error {
	return a.router.Plugins.Discover()
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.router.Plugins
}

// SetDetector replaces the hand detector.
func (a *App) SetDetector(d detector.Detector, name string) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	a.detector, a.detectorName = d, name
}

// SetCamera replaces the camera. It must be called before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	a.camera = c
}

// SetInjector replaces the native injector; nil disables it.
func (a *App) SetInjector(inj inject.Injector) {
	a.router.Injector = inj
}

// SetEnabled turns gesture control on or off. Disabling returns the
// pipeline to Navigation mode.
func (a *App) SetEnabled(enabled bool) {
	a.stateMu.Lock()
	changed := a.enabled != enabled
	a.enabled = enabled
	a.stateMu.Unlock()

	if !changed {
		return
	}
	if !enabled {
		a.mu.Lock()
		a.pipeline.Reset()
		a.mu.Unlock()
	}
	log.Printf("Gesture control enabled: %v", enabled)
	a.publish()
}

// IsEnabled reports whether frames are processed.
func (a *App) IsEnabled() bool {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	return a.enabled
}

// ProcessHand runs one frame through the pipeline. A nil hand means no hand
// was detected. It is the single entry point of the frame loop. Frames are
// ignored while gesture control is disabled.
func (a *App) ProcessHand(hand *detector.HandLandmarks, now time.Time) control.Result {
	a.mu.Lock()
	if !a.IsEnabled() {
		res := control.Result{Mode: a.pipeline.Mode()}
		a.mu.Unlock()
		return res
	}
	before := a.pipeline.Mode()
	res := a.pipeline.Process(hand, now)
	a.mu.Unlock()

	if a.recorder != nil {
		if err := a.recorder.Record(now, hand); err != nil {
			log.Printf("Failed to record frame: %v", err)
		}
	}

	if res.Mode != before {
		log.Printf("Mode %s -> %s", before, res.Mode)
	}
	if res.Executed || res.Mode != before {
		a.publish()
	}
	return res
}

// Trigger executes a manual command, bypassing gestures and cooldown.
func (a *App) Trigger(cmd control.Command) error {
	a.mu.Lock()
	err := a.pipeline.Trigger(cmd, time.Now())
	a.mu.Unlock()
	if err != nil {
		return err
	}
	a.publish()
	return nil
}

// Tuning returns the live-tunable settings in effect.
func (a *App) Tuning() config.Tuning {
	a.mu.Lock()
	opts := a.pipeline.Options()
	a.mu.Unlock()

	return config.Tuning{
		CooldownSeconds:   opts.Cooldown.Seconds(),
		RequiredStability: opts.RequiredStability,
		PinchThreshold:    opts.PinchThreshold,
	}
}

// UpdateTuning validates t, applies it to the pipeline and persists it.
func (a *App) UpdateTuning(t config.Tuning) error {
	if err := t.Validate(); err != nil {
		return err
	}

	a.mu.Lock()
	opts := a.pipeline.Options()
	opts.Cooldown = t.Cooldown()
	opts.RequiredStability = t.RequiredStability
	opts.PinchThreshold = t.PinchThreshold
	err := a.pipeline.Configure(opts)
	a.mu.Unlock()
	if err != nil {
		return err
	}

	if a.config.Store != nil {
		if err := a.config.Store.Settings().SetTuning(t); err != nil {
			return fmt.Errorf("save tuning: %w", err)
		}
	}
	log.Printf("Tuning updated: cooldown=%.2fs stability=%d pinch=%.3f", t.CooldownSeconds, t.RequiredStability, t.PinchThreshold)
	return nil
}

// Status returns the current snapshot.
func (a *App) Status() Status {
	a.mu.Lock()
	snap := a.pipeline.Snapshot(time.Now())
	a.mu.Unlock()

	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	return Status{
		Snapshot: snap,
		Enabled:  a.enabled,
		Running:  a.stopCh != nil,
		Detector: a.detectorName,
		FPS:      a.fps,
	}
}

// Reset returns the pipeline to Navigation mode.
func (a *App) Reset() {
	a.mu.Lock()
	a.pipeline.Reset()
	a.mu.Unlock()
	a.publish()
}

func (a *App) onEvent(e control.Event) {
	log.Printf("%s: %s -> %s", e.Mode, e.Gesture, e.Action)
	a.actuator.record(e)
}

func (a *App) publish() {
	if a.OnStatus != nil {
		a.OnStatus(a.Status())
	}
}

// Start opens the camera and begins the frame loop.
func (a *App) Start() error {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()

	if a.stopCh != nil {
		return nil
	}
	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	a.camera.SetFPS(capture.IdleFPS)
	a.fps = capture.IdleFPS

	a.stopCh = make(chan struct{})
	a.wg.Add(1)
	go a.run(a.stopCh)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the frame loop and closes the camera.
func (a *App) Stop() {
	a.stateMu.Lock()
	stop := a.stopCh
	a.stopCh = nil
	a.stateMu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	a.wg.Wait()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Reset()
	log.Println("Detection pipeline stopped")
}

// Close stops the App and releases the detector, recorder and action worker.
func (a *App) Close() error {
	a.Stop()
	a.actuator.stop()
	a.motion.Close()

	var errs []error
	if err := a.detector.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close detector: %w", err))
	}
	if a.recorder != nil {
		if err := a.recorder.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close recording: %w", err))
		}
	}
	return errors.Join(errs...)
}
