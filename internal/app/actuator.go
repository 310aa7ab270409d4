package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/ayusman/slidehand/internal/control"
	"github.com/ayusman/slidehand/internal/inject"
	"github.com/ayusman/slidehand/internal/plugin"
	"github.com/ayusman/slidehand/internal/store"
)

// Names of the bundled plugins used when nothing else can serve an action.
const (
	KeyboardPlugin = "keyboard"
	PointerPlugin  = "pointer"
)

// ErrNoRoute is returned when no binding, injector or plugin can perform an action.
var ErrNoRoute = errors.New("no route for action")

// BindingLookup finds the user binding of an action. A nil binding means none.
type BindingLookup interface {
	GetByAction(action string) (*store.Binding, error)
}

// EventSink stores executed actions.
type EventSink interface {
	Create(e *store.Event) error
}

// Router performs slide actions and pointer moves. Slide actions go to the
// action's enabled binding, then the native injector, then the keyboard
// plugin. Pointer moves go to the injector, then the pointer plugin.
type Router struct {
	Bindings BindingLookup
	Plugins  *plugin.Manager
	Exec     *plugin.Executor
	Injector inject.Injector
}

// Execute performs cmd and returns the name of the route that served it.
func (r *Router) Execute(ctx context.Context, cmd control.Command) (string, error) {
	keys := control.DefaultKeys(cmd)

	if r.Bindings != nil {
		b, err := r.Bindings.GetByAction(string(cmd.Action))
		if err != nil {
			log.Printf("Binding lookup for %s failed: %v", cmd.Action, err)
		} else if b != nil && b.Enabled {
			req := &plugin.Request{
				Action:  b.PluginAction,
				Command: string(cmd.Action),
				Keys:    keys,
				Params:  b.Params,
			}
			err := r.runPlugin(ctx, b.PluginName, req)
			if err == nil {
				return "plugin:" + b.PluginName, nil
			}
			log.Printf("Binding %s -> %s/%s failed: %v", cmd.Action, b.PluginName, b.PluginAction, err)
		}
	}

	if len(keys) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoRoute, cmd)
	}

	if r.Injector != nil {
		err := r.Injector.PressKeys(keys)
		if err == nil {
			return "inject", nil
		}
		log.Printf("Key injection for %s failed: %v", cmd, err)
	}

	req := &plugin.Request{Action: plugin.ActionPress, Command: string(cmd.Action), Keys: keys}
	if err := r.runPlugin(ctx, KeyboardPlugin, req); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNoRoute, cmd, err)
	}
	return "plugin:" + KeyboardPlugin, nil
}

// Move places the system pointer at (x, y) screen pixels.
func (r *Router) Move(ctx context.Context, x, y int) error {
	if r.Injector != nil {
		if err := r.Injector.MoveTo(x, y); err == nil {
			return nil
		}
	}

	req := &plugin.Request{Action: plugin.ActionMove, Point: &plugin.Point{X: x, Y: y}}
	if err := r.runPlugin(ctx, PointerPlugin, req); err != nil {
		return fmt.Errorf("%w: move: %v", ErrNoRoute, err)
	}
	return nil
}

func (r *Router) runPlugin(ctx context.Context, name string, req *plugin.Request) error {
	if r.Plugins == nil || r.Exec == nil {
		return plugin.ErrPluginNotFound
	}
	p, err := r.Plugins.Lookup(name, req.Action)
	if err != nil {
		return err
	}
	return r.Exec.Run(ctx, p, req)
}

// queue is the pipeline's Actuator. It hands work to a single worker so the
// frame loop never waits on a plugin process. Pointer moves are coalesced:
// only the latest position is sent.
type queue struct {
	router *Router
	events EventSink

	cmds  chan control.Command
	evs   chan control.Event
	moved chan struct{}

	moveMu sync.Mutex
	move   *plugin.Point

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

const queueSize = 16

func newQueue(router *Router, events EventSink) *queue {
	return &queue{
		router: router,
		events: events,
		cmds:   make(chan control.Command, queueSize),
		evs:    make(chan control.Event, queueSize*4),
		moved:  make(chan struct{}, 1),
	}
}

// Trigger queues cmd. It drops the command when the queue is full.
func (q *queue) Trigger(cmd control.Command) {
	select {
	case q.cmds <- cmd:
	default:
		log.Printf("Actuator busy, dropping %s", cmd)
	}
}

// MovePointer replaces any pending move.
func (q *queue) MovePointer(x, y int) {
	q.moveMu.Lock()
	q.move = &plugin.Point{X: x, Y: y}
	q.moveMu.Unlock()

	select {
	case q.moved <- struct{}{}:
	default:
	}
}

func (q *queue) record(e control.Event) {
	if q.events == nil {
		return
	}
	select {
	case q.evs <- e:
	default:
		log.Printf("Event log busy, dropping %s event", e.Action)
	}
}

func (q *queue) start() {
	ctx, cancel := context.WithCancel(context.Background())
	q.cancel = cancel
	q.wg.Add(1)
	go q.run(ctx)
}

func (q *queue) stop() {
	if q.cancel == nil {
		return
	}
	q.cancel()
	q.wg.Wait()
	q.cancel = nil
}

func (q *queue) run(ctx context.Context) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			q.drainEvents()
			return

		case cmd := <-q.cmds:
			route, err := q.router.Execute(ctx, cmd)
			if err != nil {
				log.Printf("Action %s failed: %v", cmd, err)
				continue
			}
			log.Printf("Executed %s via %s", cmd, route)

		case <-q.moved:
			q.moveMu.Lock()
			pt := q.move
			q.move = nil
			q.moveMu.Unlock()
			if pt == nil {
				continue
			}
			if err := q.router.Move(ctx, pt.X, pt.Y); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Pointer move failed: %v", err)
			}

		case e := <-q.evs:
			q.store(e)
		}
	}
}

func (q *queue) drainEvents() {
	for {
		select {
		case e := <-q.evs:
			q.store(e)
		default:
			return
		}
	}
}

func (q *queue) store(e control.Event) {
	err := q.events.Create(&store.Event{
		Mode:      string(e.Mode),
		Gesture:   string(e.Gesture),
		Action:    string(e.Action),
		CreatedAt: e.Time,
	})
	if err != nil {
		log.Printf("Failed to store event: %v", err)
	}
}
