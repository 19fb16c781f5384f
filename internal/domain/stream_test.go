package domain

import (
	"errors"
	"testing"
)

func TestStreamValidate(t *testing.T) {
	e1 := NewNode(0, "E1", KindEndStation, 1)
	e2 := NewNode(1, "E2", KindEndStation, 1)
	sw := NewNode(2, "SW1", KindSwitch, 4)

	valid := func() Stream {
		return Stream{Priority: 3, Name: "S1", Source: e1, Destination: e2, Size: 100, Period: 1000, Deadline: 500}
	}

	t.Run("valid stream passes", func(t *testing.T) {
		s := valid()
		if err := s.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*Stream)
		field  string
	}{
		{"priority above range", func(s *Stream) { s.Priority = 8 }, "priority"},
		{"priority below range", func(s *Stream) { s.Priority = -1 }, "priority"},
		{"zero size", func(s *Stream) { s.Size = 0 }, "size"},
		{"negative period", func(s *Stream) { s.Period = -10 }, "period"},
		{"zero deadline", func(s *Stream) { s.Deadline = 0 }, "deadline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)

			err := s.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, verr.Field)
			}
			if verr.Stream != "S1" {
				t.Errorf("expected stream S1, got %s", verr.Stream)
			}
		})
	}

	t.Run("endpoints are not checked", func(t *testing.T) {
		for _, mutate := range []func(*Stream){
			func(s *Stream) { s.Source = sw },
			func(s *Stream) { s.Destination = sw },
			func(s *Stream) { s.Destination = e1 },
		} {
			s := valid()
			mutate(&s)
			if err := s.Validate(); err != nil {
				t.Errorf("%s: expected no error, got %v", &s, err)
			}
		}
	})

	t.Run("priority bounds are inclusive", func(t *testing.T) {
		for _, p := range []int{MinPriority, MaxPriority} {
			s := valid()
			s.Priority = p
			if err := s.Validate(); err != nil {
				t.Errorf("priority %d: expected no error, got %v", p, err)
			}
		}
	})
}

func TestPath(t *testing.T) {
	e1 := NewNode(0, "E1", KindEndStation, 1)
	sw := NewNode(1, "SW1", KindSwitch, 4)
	e2 := NewNode(2, "E2", KindEndStation, 1)

	t.Run("no path sentinel", func(t *testing.T) {
		if NoPath.Found() {
			t.Error("expected NoPath not to be found")
		}
		if len(NoPath.Names()) != 0 {
			t.Error("expected no names")
		}
		if NoPath.Contains("E1") {
			t.Error("expected NoPath to contain nothing")
		}
		if NoPath.String() != "No Path Found" {
			t.Errorf("unexpected string %q", NoPath.String())
		}
	})

	t.Run("concrete path", func(t *testing.T) {
		p := Path{e1, sw, e2}
		if !p.Found() {
			t.Error("expected path to be found")
		}
		if !p.Contains("SW1") || p.Contains("SW2") {
			t.Error("unexpected membership")
		}
		if p.String() != "E1 -> SW1 -> E2" {
			t.Errorf("unexpected string %q", p.String())
		}
	})
}

func TestRecordError(t *testing.T) {
	err := &RecordError{Index: 4, Record: []string{"LINK", "L1"}, Err: ErrWrongArity}

	if !errors.Is(err, ErrWrongArity) {
		t.Error("expected RecordError to unwrap to ErrWrongArity")
	}
	if got := err.Error(); got != "record 4 [LINK,L1]: wrong field count" {
		t.Errorf("unexpected message %q", got)
	}
}
