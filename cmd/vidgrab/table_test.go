package main

import (
	"strings"
	"testing"
)

func TestRenderTableKeepsHeaderCase(t *testing.T) {
	out := renderTable([]tableColumn{{header: "Level"}, {header: "Size", align: alignRight}}, [][]string{{"good"}})
	if !strings.Contains(out, "Level") || strings.Contains(out, "LEVEL") {
		t.Fatalf("unexpected header rendering:\n%s", out)
	}
	if !strings.Contains(out, "good") {
		t.Fatalf("missing row:\n%s", out)
	}
}

func TestRenderTableNoColumns(t *testing.T) {
	if got := renderTable(nil, [][]string{{"x"}}); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
