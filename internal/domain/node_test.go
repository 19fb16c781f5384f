package domain

import (
	"testing"
	"time"
)

func TestNewNode(t *testing.T) {
	t.Run("switch gets traffic payload", func(t *testing.T) {
		node := NewNode(3, "SW1", KindSwitch, 4)

		if node.Handle() != 3 {
			t.Errorf("expected handle 3, got %d", node.Handle())
		}
		if node.Name() != "SW1" {
			t.Errorf("expected name 'SW1', got %s", node.Name())
		}
		if node.Port() != 4 {
			t.Errorf("expected port 4, got %d", node.Port())
		}
		if !node.IsSwitch() || node.IsEndStation() {
			t.Error("expected a switch")
		}
		if node.Arrivals() != nil {
			t.Error("expected switch to have no arrival log")
		}
	})

	t.Run("end station gets arrival payload", func(t *testing.T) {
		node := NewNode(0, "E1", KindEndStation, 1)

		if node.IsSwitch() || !node.IsEndStation() {
			t.Error("expected an end station")
		}
		if node.TrafficStreams() != nil {
			t.Error("expected end station to have no traffic map")
		}
	})
}

func TestParseNodeKind(t *testing.T) {
	tests := []struct {
		input string
		want  NodeKind
		ok    bool
	}{
		{"SWITCH", KindSwitch, true},
		{"switch", KindSwitch, true},
		{" ENDSTATION ", KindEndStation, true},
		{"LINK", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseNodeKind(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseNodeKind(%q) = (%s, %v), want (%s, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestInferKind(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		want   NodeKind
	}{
		{"SW1", SwitchNamePrefix, KindSwitch},
		{"sw_0_3", SwitchNamePrefix, KindSwitch},
		{"E1", SwitchNamePrefix, KindEndStation},
		{"ES_SW", SwitchNamePrefix, KindEndStation},
		{"SW1", "", KindEndStation},
		{"br-2", "BR", KindSwitch},
	}

	for _, tt := range tests {
		if got := InferKind(tt.name, tt.prefix); got != tt.want {
			t.Errorf("InferKind(%q, %q) = %s, want %s", tt.name, tt.prefix, got, tt.want)
		}
	}
}

func TestNodeRecordTraffic(t *testing.T) {
	sw := NewNode(1, "SW1", KindSwitch, 4)
	e1 := NewNode(0, "E1", KindEndStation, 1)
	e2 := NewNode(2, "E2", KindEndStation, 1)

	t.Run("writes entry", func(t *testing.T) {
		if !sw.RecordTraffic("S1", TrafficRecord{Previous: e1, Size: 100, Deadline: 500}) {
			t.Fatal("expected switch to accept traffic")
		}
		rec, ok := sw.Traffic("S1")
		if !ok {
			t.Fatal("expected traffic entry for S1")
		}
		if rec.Previous != e1 || rec.Size != 100 || rec.Deadline != 500 {
			t.Errorf("unexpected record %+v", rec)
		}
	})

	t.Run("overwrites instead of duplicating", func(t *testing.T) {
		sw.RecordTraffic("S1", TrafficRecord{Previous: e2, Size: 64, Deadline: 10})

		streams := sw.TrafficStreams()
		if len(streams) != 1 {
			t.Fatalf("expected 1 traffic entry, got %d", len(streams))
		}
		rec, _ := sw.Traffic("S1")
		if rec.Previous != e2 {
			t.Errorf("expected previous hop E2, got %s", rec.Previous.Name())
		}
	})

	t.Run("end station refuses traffic", func(t *testing.T) {
		if e1.RecordTraffic("S1", TrafficRecord{Previous: sw}) {
			t.Error("expected end station to refuse traffic")
		}
		if _, ok := e1.Traffic("S1"); ok {
			t.Error("expected no traffic on end station")
		}
	})
}

func TestNodeRecordArrival(t *testing.T) {
	e1 := NewNode(0, "E1", KindEndStation, 1)
	e2 := NewNode(2, "E2", KindEndStation, 1)
	sw := NewNode(1, "SW1", KindSwitch, 4)
	now := time.Now()

	e2.RecordArrival(ArrivalRecord{Stream: "S1", Source: e1, Size: 100, At: now})
	e2.RecordArrival(ArrivalRecord{Stream: "S2", Source: e1, Size: 200, At: now})

	arrivals := e2.Arrivals()
	if len(arrivals) != 2 {
		t.Fatalf("expected 2 arrivals, got %d", len(arrivals))
	}
	if arrivals[0].Stream != "S1" || arrivals[1].Stream != "S2" {
		t.Errorf("expected arrivals in order, got %s, %s", arrivals[0].Stream, arrivals[1].Stream)
	}

	arrivals[0].Size = 0
	if e2.Arrivals()[0].Size != 100 {
		t.Error("expected Arrivals to return a copy")
	}

	if sw.RecordArrival(ArrivalRecord{Stream: "S1", Source: e1}) {
		t.Error("expected switch to refuse arrivals")
	}
}
