package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ScreeningEvent describes one step of a screening's lifecycle.
type ScreeningEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	CaptureURL     string                 `json:"capture_url,omitempty"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of screening event
type EventType string

const (
	// ScreeningStarted when a screening begins
	ScreeningStarted EventType = "screening_started"
	// ScreeningCompleted when a screening finishes successfully
	ScreeningCompleted EventType = "screening_completed"
	// ScreeningFailed when a screening fails
	ScreeningFailed EventType = "screening_failed"
	// CaptureRejected when quality validation rejects the capture
	CaptureRejected EventType = "capture_rejected"
	// CaptureFetched when a capture is successfully fetched
	CaptureFetched EventType = "capture_fetched"
	// CaptureFetchFailed when a capture fetch fails
	CaptureFetchFailed EventType = "capture_fetch_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event ScreeningEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event ScreeningEvent)
}

// LoggingObserver logs screening events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles screening events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event ScreeningEvent) {
	fields := logrus.Fields{
		"event_type":      event.EventType,
		"capture_url":     event.CaptureURL,
		"processing_time": event.ProcessingTime,
		"success":         event.Success,
	}

	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	switch event.EventType {
	case ScreeningStarted:
		o.logger.WithFields(fields).Info("Screening started")
	case ScreeningCompleted:
		o.logger.WithFields(fields).Info("Screening completed")
	case ScreeningFailed:
		o.logger.WithFields(fields).Error("Screening failed")
	case CaptureRejected:
		o.logger.WithFields(fields).Warn("Capture rejected by quality validation")
	case CaptureFetched:
		o.logger.WithFields(fields).Debug("Capture fetched successfully")
	case CaptureFetchFailed:
		o.logger.WithFields(fields).Error("Capture fetch failed")
	default:
		o.logger.WithFields(fields).Info("Screening event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver collects counters from screening events
type MetricsObserver struct {
	mu                   sync.RWMutex
	totalScreenings      int64
	successfulScreenings int64
	failedScreenings     int64
	rejectedCaptures     int64
	totalProcessingTime  time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// OnEvent handles screening events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event ScreeningEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case ScreeningStarted:
		o.totalScreenings++
	case ScreeningCompleted:
		o.successfulScreenings++
		o.totalProcessingTime += event.ProcessingTime
	case ScreeningFailed:
		o.failedScreenings++
	case CaptureRejected:
		o.rejectedCaptures++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current counters
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avgProcessingTime := time.Duration(0)
	if o.successfulScreenings > 0 {
		avgProcessingTime = o.totalProcessingTime / time.Duration(o.successfulScreenings)
	}

	return map[string]interface{}{
		"total_screenings":      o.totalScreenings,
		"successful_screenings": o.successfulScreenings,
		"failed_screenings":     o.failedScreenings,
		"rejected_captures":     o.rejectedCaptures,
		"total_processing_time": o.totalProcessingTime,
		"avg_processing_time":   avgProcessingTime,
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event. Observers run
// concurrently; a panicking observer is logged and dropped for that
// event instead of taking down the process.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event ScreeningEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, observer := range observers {
		go func(obs Observer) {
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}
