package prompt

import (
	"errors"
	"strconv"
	"strings"
	"testing"
)

func TestAskUsesDefault(t *testing.T) {
	var out strings.Builder
	p := New(strings.NewReader("\n  value  \n"), &out)

	got, err := p.Ask("Destination", "/videos")
	if err != nil || got != "/videos" {
		t.Fatalf("Ask = %q, %v", got, err)
	}
	got, err = p.Ask("Destination", "/videos")
	if err != nil || got != "value" {
		t.Fatalf("Ask = %q, %v", got, err)
	}
	if !strings.Contains(out.String(), "Destination [/videos]: ") {
		t.Fatalf("unexpected prompt output %q", out.String())
	}
}

func TestRequiredRepeats(t *testing.T) {
	var out strings.Builder
	p := New(strings.NewReader("\n\nhttps://example.com"), &out)
	got, err := p.Required("URL")
	if err != nil || got != "https://example.com" {
		t.Fatalf("Required = %q, %v", got, err)
	}
	if strings.Count(out.String(), "A value is required.") != 2 {
		t.Fatalf("expected two reprompts, got %q", out.String())
	}
}

func TestConfirm(t *testing.T) {
	p := New(strings.NewReader("maybe\nY\n\nno\n"), nil)
	for i, want := range []bool{true, false, false} {
		got, err := p.Confirm("Download thumbnail?", false)
		if err != nil {
			t.Fatalf("Confirm %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("Confirm %d = %v, want %v", i, got, want)
		}
	}
}

func TestNoInput(t *testing.T) {
	p := New(strings.NewReader(""), nil)
	if _, err := p.Ask("URL", ""); !errors.Is(err, ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
	if _, err := p.Confirm("Sure?", true); !errors.Is(err, ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
}

func TestValidated(t *testing.T) {
	var out strings.Builder
	p := New(strings.NewReader("abc\n42\n"), &out)
	got, err := Validated(p, "Number", "", strconv.Atoi)
	if err != nil || got != 42 {
		t.Fatalf("Validated = %d, %v", got, err)
	}
	if !strings.Contains(out.String(), "Invalid answer") {
		t.Fatalf("expected rejection message, got %q", out.String())
	}
}

func TestIsTerminalNil(t *testing.T) {
	if IsTerminal(nil) {
		t.Fatal("nil file is not a terminal")
	}
}
