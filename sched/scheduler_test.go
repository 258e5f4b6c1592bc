package sched

import (
	"reflect"
	"testing"
	"time"
)

func TestSchedulerOrdering(t *testing.T) {
	s := New()
	var got []string
	s.After(30*time.Millisecond, func() { got = append(got, "c") })
	s.After(10*time.Millisecond, func() { got = append(got, "a") })
	s.After(10*time.Millisecond, func() { got = append(got, "b") })

	s.Advance(5 * time.Millisecond)
	if len(got) != 0 {
		t.Fatalf("nothing should fire yet, got %v", got)
	}
	s.Advance(25 * time.Millisecond)
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("fire order = %v, want %v", got, want)
	}
	if s.Pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", s.Pending())
	}
	if s.Now() != 30*time.Millisecond {
		t.Fatalf("Now = %v, want 30ms", s.Now())
	}
}

func TestSchedulerEveryAndCancel(t *testing.T) {
	s := New()
	count := 0
	id := s.Every(100*time.Millisecond, func() { count++ })

	s.Advance(350 * time.Millisecond)
	if count != 3 {
		t.Fatalf("expected 3 ticks, got %d", count)
	}
	if !s.Cancel(id) {
		t.Fatalf("cancel should report a pending timer")
	}
	if s.Cancel(id) {
		t.Fatalf("second cancel should be a no-op")
	}
	s.Advance(time.Second)
	if count != 3 {
		t.Fatalf("cancelled interval kept firing: %d", count)
	}
}

func TestSchedulerNestedScheduling(t *testing.T) {
	cases := []struct {
		name    string
		advance time.Duration
		want    []string
	}{
		{"same_advance", 50 * time.Millisecond, []string{"outer", "inner"}},
		{"not_yet_due", 15 * time.Millisecond, []string{"outer"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := New()
			var got []string
			s.After(10*time.Millisecond, func() {
				got = append(got, "outer")
				s.After(20*time.Millisecond, func() { got = append(got, "inner") })
			})
			s.Advance(c.advance)
			if !reflect.DeepEqual(got, c.want) {
				t.Fatalf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestSchedulerCancelFromCallback(t *testing.T) {
	s := New()
	fired := false
	var second TimerID
	s.After(10*time.Millisecond, func() { s.Cancel(second) })
	second = s.After(20*time.Millisecond, func() { fired = true })
	s.Advance(time.Second)
	if fired {
		t.Fatalf("timer cancelled by an earlier callback must not fire")
	}
}
