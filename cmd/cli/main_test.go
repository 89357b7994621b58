package main

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func TestPrintJSON(t *testing.T) {
	out := captureOutput(t, func() {
		printJSON(struct {
			A int `json:"a"`
		}{A: 1})
	})

	expected := "{\n  \"a\": 1\n}\n"
	if out != expected {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestParsePlayers(t *testing.T) {
	players, err := parsePlayers([]string{"alice:AH,AD", "bob:KS,KD"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(players))
	}
	if players[0].UserID != "alice" || players[0].HoleCards[0].String() != "AH" {
		t.Fatalf("unexpected first player: %+v", players[0])
	}

	if _, err := parsePlayers([]string{"no-cards"}); err == nil {
		t.Fatal("expected error for malformed player")
	}
	if _, err := parsePlayers([]string{"alice:XX,AD"}); err == nil {
		t.Fatal("expected error for malformed card")
	}
}

func TestShowdownCmdEvaluatesLocally(t *testing.T) {
	cmd := showdownCmd()
	cmd.SetArgs([]string{
		"--community", "AS,AD,KC,7H,2D",
		"alice:AH,2C",
		"bob:KS,KD",
	})

	out := captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	})

	if !strings.Contains(out, `"winners"`) || !strings.Contains(out, "alice") {
		t.Fatalf("expected alice to win, got:\n%s", out)
	}
}
