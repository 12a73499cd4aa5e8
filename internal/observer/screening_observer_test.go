package observer

import (
	"context"
	"testing"
	"time"
)

func TestMetricsObserver_Counters(t *testing.T) {
	o := NewMetricsObserver()
	ctx := context.Background()

	o.OnEvent(ctx, ScreeningEvent{EventType: ScreeningStarted})
	o.OnEvent(ctx, ScreeningEvent{EventType: ScreeningStarted})
	o.OnEvent(ctx, ScreeningEvent{EventType: ScreeningCompleted, ProcessingTime: 100 * time.Millisecond})
	o.OnEvent(ctx, ScreeningEvent{EventType: ScreeningFailed})
	o.OnEvent(ctx, ScreeningEvent{EventType: CaptureRejected})

	metrics := o.GetMetrics()
	if metrics["total_screenings"].(int64) != 2 {
		t.Errorf("expected 2 total screenings, got %v", metrics["total_screenings"])
	}
	if metrics["successful_screenings"].(int64) != 1 {
		t.Errorf("expected 1 successful screening, got %v", metrics["successful_screenings"])
	}
	if metrics["failed_screenings"].(int64) != 1 {
		t.Errorf("expected 1 failed screening, got %v", metrics["failed_screenings"])
	}
	if metrics["rejected_captures"].(int64) != 1 {
		t.Errorf("expected 1 rejected capture, got %v", metrics["rejected_captures"])
	}
	if metrics["avg_processing_time"].(time.Duration) != 100*time.Millisecond {
		t.Errorf("unexpected average processing time %v", metrics["avg_processing_time"])
	}
}

func TestEventPublisher_SubscribeUnsubscribe(t *testing.T) {
	p := NewEventPublisher()
	o := NewMetricsObserver()

	p.Subscribe(o)
	if len(p.observers) != 1 {
		t.Fatalf("expected 1 observer, got %d", len(p.observers))
	}

	p.Unsubscribe(o)
	if len(p.observers) != 0 {
		t.Fatalf("expected 0 observers after unsubscribe, got %d", len(p.observers))
	}
}
