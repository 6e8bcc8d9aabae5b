package quality

import (
	"errors"
	"strings"
	"testing"
)

func TestParseAliases(t *testing.T) {
	tests := map[string]Level{
		"":       Native,
		"none":   Native,
		"NATIVE": Native,
		"best":   Best,
		"8K":     Best,
		" good ": Good,
		"4k":     Good,
		"Medium": Medium,
		"2k":     Medium,
		"low":    Low,
	}
	for in, want := range tests {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("Parse(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestParseRejectsUnknown(t *testing.T) {
	for _, in := range []string{"ultra", "1080p", "16k"} {
		_, err := Parse(in)
		var ise *InvalidSelectionError
		if !errors.As(err, &ise) {
			t.Fatalf("Parse(%q) expected InvalidSelectionError, got %v", in, err)
		}
		if !strings.Contains(err.Error(), "native") {
			t.Fatalf("expected valid names in error, got %q", err.Error())
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := map[string]PerformanceMode{
		"":       ModeNormal,
		"n":      ModeNormal,
		"No":     ModeNormal,
		"normal": ModeNormal,
		"y":      ModeLow,
		"YES":    ModeLow,
		"low":    ModeLow,
	}
	for in, want := range tests {
		got, err := ParseMode(in)
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseMode(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := ParseMode("maybe"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		level   Level
		mode    PerformanceMode
		want    Level
		wantErr bool
	}{
		{Native, ModeNormal, Native, false},
		{Best, ModeNormal, Best, false},
		{Low, ModeNormal, Low, false},
		{Native, ModeLow, Low, false},
		{Low, ModeLow, Low, false},
		{Best, ModeLow, "", true},
		{Good, ModeLow, "", true},
		{Medium, ModeLow, "", true},
		{Level("ultra"), ModeNormal, "", true},
		{Native, PerformanceMode("turbo"), "", true},
	}
	for _, tt := range tests {
		got, err := Resolve(tt.level, tt.mode)
		if tt.wantErr {
			var ise *InvalidSelectionError
			if !errors.As(err, &ise) {
				t.Fatalf("Resolve(%s, %s) expected InvalidSelectionError, got %v", tt.level, tt.mode, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Resolve(%s, %s): %v", tt.level, tt.mode, err)
		}
		if got != tt.want {
			t.Fatalf("Resolve(%s, %s) = %s, want %s", tt.level, tt.mode, got, tt.want)
		}
	}
}

func TestTableIsTotal(t *testing.T) {
	profiles := Profiles()
	if len(profiles) != len(table) {
		t.Fatalf("display order covers %d levels, table has %d", len(profiles), len(table))
	}
	for _, name := range Names() {
		level, err := Parse(name)
		if err != nil {
			t.Fatalf("Parse(%q): %v", name, err)
		}
		profile, err := Lookup(level)
		if err != nil {
			t.Fatalf("Lookup(%s): %v", level, err)
		}
		if profile.Level != level {
			t.Fatalf("profile for %s reports level %s", level, profile.Level)
		}
		if profile.Preset == "" || profile.CQ == 0 || profile.AudioCodec == "" {
			t.Fatalf("incomplete profile for %s: %+v", level, profile)
		}
		if (profile.Scale != "") != level.Forced() {
			t.Fatalf("scale/forced mismatch for %s", level)
		}
		for _, alias := range profile.Aliases {
			if got, _ := Parse(alias); got != level {
				t.Fatalf("alias %q resolves to %s, want %s", alias, got, level)
			}
		}
	}
}

func TestLookupReturnsCopies(t *testing.T) {
	p, err := Lookup(Best)
	if err != nil {
		t.Fatal(err)
	}
	p.Extras[0] = "mutated"
	again, _ := Lookup(Good)
	if again.Extras[0] != "-colorspace" {
		t.Fatalf("shared extras slice was mutated: %v", again.Extras)
	}
}

func TestFilter(t *testing.T) {
	best, _ := Lookup(Best)
	if got := best.Filter("unsharp=5:5:0.8:3:3:0.4"); got != "scale=7680:4320,unsharp=5:5:0.8:3:3:0.4" {
		t.Fatalf("unexpected best filter %q", got)
	}
	if got := best.Filter(""); got != "scale=7680:4320" {
		t.Fatalf("unexpected unsharpened filter %q", got)
	}
	native, _ := Lookup(Native)
	if got := native.Filter(""); got != "" {
		t.Fatalf("expected empty filter, got %q", got)
	}
}

func TestTitle(t *testing.T) {
	if got := Medium.Title(); got != "Medium" {
		t.Fatalf("Title = %q", got)
	}
}
