package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phanxgames/spriter"
)

const fixturePath = "../../testdata/player.scon"

func loadFixture(t *testing.T) *spriter.Document {
	t.Helper()
	data, err := os.ReadFile(fixturePath)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := spriter.LoadDocument(data, spriter.LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestWriteEntities(t *testing.T) {
	var buf bytes.Buffer
	if err := writeEntities(&buf, loadFixture(t)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"idle", "wave", "bounce", "ping_pong"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines != 4 {
		t.Errorf("expected header + 3 rows, got %d lines:\n%s", lines, out)
	}
}

func TestWritePose(t *testing.T) {
	def, err := pickEntity(loadFixture(t), "")
	if err != nil {
		t.Fatal(err)
	}
	e := spriter.NewEntity(def)
	if err := e.Play("idle", false); err != nil {
		t.Fatal(err)
	}
	e.SetTime(250)
	if err := e.Sample(); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := writePose(&buf, e); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "player/idle @ 250ms") {
		t.Errorf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, "50.000") || !strings.Contains(out, "45.000") {
		t.Errorf("root bone not at x=50 angle=45:\n%s", out)
	}
	if !strings.Contains(out, "torso") {
		t.Errorf("torso element missing:\n%s", out)
	}

	buf.Reset()
	if err := writePoseJSON(&buf, e); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"animation": "idle"`) {
		t.Errorf("unexpected JSON:\n%s", buf.String())
	}
}

func TestPickEntity_Unknown(t *testing.T) {
	if _, err := pickEntity(loadFixture(t), "ghost"); err == nil {
		t.Fatal("expected error for unknown entity")
	}
}

func TestPlayCommand(t *testing.T) {
	script := filepath.Join(t.TempDir(), "script.json")
	err := os.WriteFile(script, []byte(`{
  "entity": "player",
  "steps": [
    {"action": "play", "animation": "idle", "stopAtEnd": false},
    {"action": "tick", "dt": 250},
    {"action": "expect", "bone": 0, "x": 50, "y": 0, "angle": 45},
    {"action": "tick", "dt": 250, "frames": 3},
    {"action": "expect", "atTime": 0, "loops": 1}
  ]
}`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"play", fixturePath, script})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("play failed: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "ok: 1 loop(s), 0 end(s)") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}
