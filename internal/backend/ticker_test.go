package backend

import (
	"testing"
	"time"
)

func TestTickerEmitsAndCloses(t *testing.T) {
	tk := NewTicker(10 * time.Millisecond)
	select {
	case evt, ok := <-tk.Events():
		if !ok {
			t.Fatalf("channel closed early")
		}
		if evt.Kind != KindPreviewTick || evt.At.IsZero() {
			t.Fatalf("unexpected event %+v", evt)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for tick")
	}
	tk.Stop()
	tk.Wait()
	for range tk.Events() {
	}
}

func TestTickerDropsWhenConsumerIsSlow(t *testing.T) {
	tk := NewTicker(5 * time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	tk.Stop()
	tk.Wait()
	count := 0
	for range tk.Events() {
		count++
	}
	if count > 1 {
		t.Fatalf("expected at most one buffered tick, got %d", count)
	}
}

func TestTickerZeroIntervalIsSilent(t *testing.T) {
	tk := NewTicker(0)
	if tk.Interval() != 0 {
		t.Fatalf("Interval() = %v", tk.Interval())
	}
	select {
	case evt := <-tk.Events():
		t.Fatalf("unexpected event %+v", evt)
	case <-time.After(30 * time.Millisecond):
	}
	tk.Stop()
	tk.Wait()
	if _, ok := <-tk.Events(); ok {
		t.Fatalf("channel should be closed after Stop")
	}
}
