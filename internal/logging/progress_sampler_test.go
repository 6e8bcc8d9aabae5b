package logging

import "testing"

func TestProgressSamplerBuckets(t *testing.T) {
	s := NewProgressSampler(25)
	steps := []struct {
		percent float64
		phase   string
		want    bool
	}{
		{0, "downloading", true},
		{5, "downloading", false},
		{24.9, "downloading", false},
		{25, "downloading", true},
		{30, "downloading", false},
		{100, "downloading", true},
		{100, "downloading", false},
		{0, "post_processing", true},
		{-1, "post_processing", false},
		{-1, "finished", true},
	}
	for i, step := range steps {
		if got := s.ShouldLog(step.percent, step.phase); got != step.want {
			t.Fatalf("step %d (%v, %q): got %v want %v", i, step.percent, step.phase, got, step.want)
		}
	}
}

func TestProgressSamplerDefaultsBucket(t *testing.T) {
	s := NewProgressSampler(0)
	if !s.ShouldLog(1, "downloading") {
		t.Fatal("first event should log")
	}
	if s.ShouldLog(9, "downloading") {
		t.Fatal("same 10% bucket should be suppressed")
	}
	if !s.ShouldLog(10, "downloading") {
		t.Fatal("next bucket should log")
	}
}

func TestNilProgressSamplerAlwaysLogs(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(50, "downloading") {
		t.Fatal("nil sampler should log")
	}
}
