package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// captureSink records delivered events on a channel so tests can wait for
// the async workers without sleeping.
type captureSink struct {
	delivered chan *Event
	fail      bool
}

func newCaptureSink() *captureSink {
	return &captureSink{delivered: make(chan *Event, 16)}
}

func (s *captureSink) Name() string { return "capture" }

func (s *captureSink) Deliver(_ context.Context, ev *Event) error {
	if s.fail {
		return errors.New("sink down")
	}
	s.delivered <- ev
	return nil
}

func (s *captureSink) Close(context.Context) error { return nil }

func TestEmitterDelivers(t *testing.T) {
	sink := newCaptureSink()
	em := NewEmitter(EmitterConfig{QueueSize: 4, Workers: 1}, []Sink{sink})
	defer em.Close(context.Background())

	em.Emit(context.Background(), &Event{RequestID: "r1"})

	select {
	case ev := <-sink.delivered:
		if ev.RequestID != "r1" {
			t.Fatalf("delivered wrong event %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("event never delivered")
	}

	m := em.MetricsSnapshot()
	if m.Enqueued() != 1 {
		t.Fatalf("enqueued = %d, want 1", m.Enqueued())
	}
	if m.SinkSuccess("capture") != 1 {
		t.Fatalf("sink success = %d, want 1", m.SinkSuccess("capture"))
	}
}

func TestEmitterCountsSinkFailures(t *testing.T) {
	sink := newCaptureSink()
	sink.fail = true
	em := NewEmitter(EmitterConfig{QueueSize: 4, Workers: 1}, []Sink{sink})

	em.Emit(context.Background(), &Event{RequestID: "r1"})
	em.Close(context.Background())

	m := em.MetricsSnapshot()
	if m.SinkFailure("capture") != 1 {
		t.Fatalf("sink failure = %d, want 1", m.SinkFailure("capture"))
	}
	if m.SinkSuccess("capture") != 0 {
		t.Fatalf("sink success = %d, want 0", m.SinkSuccess("capture"))
	}
}

func TestEmitterDropsAfterClose(t *testing.T) {
	sink := newCaptureSink()
	em := NewEmitter(EmitterConfig{QueueSize: 4, Workers: 1}, []Sink{sink})
	em.Close(context.Background())

	em.Emit(context.Background(), &Event{RequestID: "late"})

	m := em.MetricsSnapshot()
	if d := m.Dropped(); d != 1 {
		t.Fatalf("dropped = %d, want 1", d)
	}
}

func TestEmitterCloseDrainsQueue(t *testing.T) {
	sink := newCaptureSink()
	em := NewEmitter(EmitterConfig{QueueSize: 16, Workers: 1}, []Sink{sink})

	for i := 0; i < 5; i++ {
		em.Emit(context.Background(), &Event{RequestID: "r"})
	}
	em.Close(context.Background())

	if got := len(sink.delivered); got != 5 {
		t.Fatalf("delivered %d events, want 5", got)
	}
}

func TestFileSinkWritesJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit", "events.jsonl")
	sink, err := NewFileSink(path)
	if err != nil {
		t.Fatalf("new file sink: %v", err)
	}

	for _, id := range []string{"a", "b"} {
		if err := sink.Deliver(context.Background(), &Event{RequestID: id}); err != nil {
			t.Fatalf("deliver %s: %v", id, err)
		}
	}
	if err := sink.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var ids []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var ev Event
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			t.Fatalf("bad line %q: %v", sc.Text(), err)
		}
		ids = append(ids, ev.RequestID)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("unexpected ids %v", ids)
	}
}
