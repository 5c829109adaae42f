package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event represents a benchmark lifecycle event.
type Event struct {
	// ID is the unique identifier for this event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type is the event type.
	Type string `json:"type"`

	// RunID is the associated benchmark run ID, if applicable.
	RunID string `json:"run_id,omitempty"`

	// Solver is the parametrized solver name, if applicable.
	Solver string `json:"solver,omitempty"`

	// Environment is the install environment name, if applicable.
	Environment string `json:"environment,omitempty"`

	// Message is a human-readable event message.
	Message string `json:"message"`

	// Level is the event severity level (info, warning, error).
	Level string `json:"level"`

	// Data contains additional event-specific data.
	Data map[string]interface{} `json:"data,omitempty"`
}

// EventType constants for common event types.
const (
	EventTypeRunStarted       = "run.started"
	EventTypeRunCompleted     = "run.completed"
	EventTypeRunFailed        = "run.failed"
	EventTypeSampleRecorded   = "sample.recorded"
	EventTypeInstallStarted   = "install.started"
	EventTypeInstallCompleted = "install.completed"
	EventTypeInstallFailed    = "install.failed"
)

// EventLevel constants for event severity.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// EventSubscriber is a function that handles events.
type EventSubscriber func(event Event)

// EventPublisher manages event publishing and subscriptions.
type EventPublisher struct {
	config      EventsConfig
	buffer      chan Event
	subscribers []EventSubscriber
	wg          sync.WaitGroup
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewEventPublisher creates a new event publisher with the given
// configuration.
func NewEventPublisher(cfg EventsConfig) (*EventPublisher, error) {
	if !cfg.Enabled {
		return &EventPublisher{config: cfg}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	ep := &EventPublisher{
		config: cfg,
		buffer: make(chan Event, cfg.BufferSize),
		ctx:    ctx,
		cancel: cancel,
	}

	if cfg.EnableAsync {
		ep.wg.Add(1)
		go ep.processEvents()
	}

	return ep, nil
}

// Subscribe registers a subscriber for all events.
func (ep *EventPublisher) Subscribe(sub EventSubscriber) {
	ep.mu.Lock()
	defer ep.mu.Unlock()
	ep.subscribers = append(ep.subscribers, sub)
}

// Publish publishes an event to all subscribers. The event ID and
// timestamp are filled in when unset.
func (ep *EventPublisher) Publish(event Event) error {
	if !ep.config.Enabled {
		return nil
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if ep.config.EnableAsync {
		select {
		case ep.buffer <- event:
			return nil
		case <-ep.ctx.Done():
			return fmt.Errorf("event publisher stopped")
		default:
			return fmt.Errorf("event buffer full, event dropped")
		}
	}

	ep.deliverEvent(event)
	return nil
}

// PublishRunStarted publishes a run started event.
func (ep *EventPublisher) PublishRunStarted(runID, solver, dataset string) error {
	return ep.Publish(Event{
		Type:    EventTypeRunStarted,
		RunID:   runID,
		Solver:  solver,
		Message: fmt.Sprintf("run %s started for solver %s", runID, solver),
		Level:   EventLevelInfo,
		Data: map[string]interface{}{
			"dataset": dataset,
		},
	})
}

// PublishRunCompleted publishes a run completed event.
func (ep *EventPublisher) PublishRunCompleted(runID, solver string, duration time.Duration) error {
	return ep.Publish(Event{
		Type:    EventTypeRunCompleted,
		RunID:   runID,
		Solver:  solver,
		Message: fmt.Sprintf("run %s completed for solver %s", runID, solver),
		Level:   EventLevelInfo,
		Data: map[string]interface{}{
			"duration": duration.Seconds(),
		},
	})
}

// PublishRunFailed publishes a run failed event.
func (ep *EventPublisher) PublishRunFailed(runID, solver, reason string) error {
	return ep.Publish(Event{
		Type:    EventTypeRunFailed,
		RunID:   runID,
		Solver:  solver,
		Message: fmt.Sprintf("run %s failed for solver %s: %s", runID, solver, reason),
		Level:   EventLevelError,
		Data: map[string]interface{}{
			"reason": reason,
		},
	})
}

// PublishSampleRecorded publishes a sample recorded event.
func (ep *EventPublisher) PublishSampleRecorded(runID, solver string, sample int, objective float64) error {
	return ep.Publish(Event{
		Type:    EventTypeSampleRecorded,
		RunID:   runID,
		Solver:  solver,
		Message: fmt.Sprintf("sample %d recorded for solver %s", sample, solver),
		Level:   EventLevelInfo,
		Data: map[string]interface{}{
			"sample":    sample,
			"objective": objective,
		},
	})
}

// PublishInstallStarted publishes an install started event.
func (ep *EventPublisher) PublishInstallStarted(solver, environment string) error {
	return ep.Publish(Event{
		Type:        EventTypeInstallStarted,
		Solver:      solver,
		Environment: environment,
		Message:     fmt.Sprintf("installing solver %s in environment %s", solver, environment),
		Level:       EventLevelInfo,
	})
}

// PublishInstallCompleted publishes an install completed event.
func (ep *EventPublisher) PublishInstallCompleted(solver, environment string) error {
	return ep.Publish(Event{
		Type:        EventTypeInstallCompleted,
		Solver:      solver,
		Environment: environment,
		Message:     fmt.Sprintf("installed solver %s in environment %s", solver, environment),
		Level:       EventLevelInfo,
	})
}

// PublishInstallFailed publishes an install failed event.
func (ep *EventPublisher) PublishInstallFailed(solver, environment, reason string) error {
	return ep.Publish(Event{
		Type:        EventTypeInstallFailed,
		Solver:      solver,
		Environment: environment,
		Message:     fmt.Sprintf("install of solver %s in environment %s failed: %s", solver, environment, reason),
		Level:       EventLevelError,
		Data: map[string]interface{}{
			"reason": reason,
		},
	})
}

// processEvents drains the buffer until the publisher is shut down.
func (ep *EventPublisher) processEvents() {
	defer ep.wg.Done()

	for {
		select {
		case event := <-ep.buffer:
			ep.deliverEvent(event)
		case <-ep.ctx.Done():
			// Drain remaining events before exiting.
			for {
				select {
				case event := <-ep.buffer:
					ep.deliverEvent(event)
				default:
					return
				}
			}
		}
	}
}

// deliverEvent delivers an event to all subscribers.
func (ep *EventPublisher) deliverEvent(event Event) {
	ep.mu.RLock()
	subs := make([]EventSubscriber, len(ep.subscribers))
	copy(subs, ep.subscribers)
	ep.mu.RUnlock()

	for _, sub := range subs {
		sub(event)
	}
}

// Shutdown stops the publisher and waits for buffered events to drain.
func (ep *EventPublisher) Shutdown(ctx context.Context) error {
	if !ep.config.Enabled || ep.cancel == nil {
		return nil
	}

	ep.cancel()

	done := make(chan struct{})
	go func() {
		ep.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
