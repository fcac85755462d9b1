package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phanxgames/spriter"
)

const atlasJSON = `{
  "frames": {
    "body/torso.png": {"frame": {"x": 0, "y": 0, "w": 100, "h": 50}, "sourceSize": {"w": 100, "h": 50}},
    "body/head.png": {"frame": {"x": 100, "y": 0, "w": 40, "h": 40}, "sourceSize": {"w": 40, "h": 40}}
  },
  "meta": {"image": "player.png"}
}`

func setupDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	scon, err := os.ReadFile("../../testdata/player.scon")
	if err != nil {
		t.Fatal(err)
	}
	write(t, dir, "player.scon", string(scon))
	write(t, dir, "player.json", atlasJSON)
	return dir
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_NoManifest(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrNoManifest) {
		t.Fatalf("expected ErrNoManifest, got %v", err)
	}
}

func TestParse(t *testing.T) {
	m, err := Parse([]byte(`
[library]
name = "demo"
debug = true

[[document]]
key = "hero"
scon = "anim/hero.scon"
atlas = "anim/hero-atlas.json"

[[document]]
scon = "anim/enemy.scon"
`))
	if err != nil {
		t.Fatal(err)
	}
	if m.Library.Name != "demo" || !m.Library.Debug {
		t.Errorf("library = %+v", m.Library)
	}
	if len(m.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(m.Documents))
	}
	if d := m.Documents[0]; d.Key != "hero" || d.Atlas != "anim/hero-atlas.json" {
		t.Errorf("document 0 = %+v", d)
	}
	if d := m.Documents[1]; d.Key != "enemy" {
		t.Errorf("document 1 key = %q, want derived %q", d.Key, "enemy")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want string
	}{
		{"syntax", `[[document]`, "parsing"},
		{"missing scon", "[[document]]\nkey = \"a\"\n", "no scon path"},
		{"duplicate key", "[[document]]\nscon = \"a.scon\"\n[[document]]\nscon = \"x/a.scon\"\n", "duplicate document key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	dir := setupDir(t)
	write(t, dir, FileName, "[[document]]\nscon = \"player.scon\"\n")

	m, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	lib := spriter.NewLibrary()
	if err := m.Open(lib, OpenOptions{}); err != nil {
		t.Fatal(err)
	}

	if keys := lib.Keys(); len(keys) != 1 || keys[0] != "player" {
		t.Fatalf("keys = %v", keys)
	}
	atlas := lib.Atlas("player")
	if atlas == nil {
		t.Fatal("expected the sibling atlas to be loaded")
	}
	if _, ok := atlas.Region("body/head.png"); !ok {
		t.Error("expected region body/head.png")
	}
	if _, err := lib.NewEntity("player", "player"); err != nil {
		t.Error(err)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, FileName, "[[document]]\nscon = \"nope.scon\"\n")
	m, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Open(spriter.NewLibrary(), OpenOptions{}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestScanAndMarshal(t *testing.T) {
	dir := setupDir(t)
	write(t, dir, "alpha.scon", "{}")

	m, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(m.Documents))
	}
	if m.Documents[0].Key != "alpha" || m.Documents[0].Atlas != "" {
		t.Errorf("document 0 = %+v", m.Documents[0])
	}
	if m.Documents[1].Key != "player" || m.Documents[1].Atlas != "player.json" {
		t.Errorf("document 1 = %+v", m.Documents[1])
	}

	data, err := Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("re-parse: %v\n%s", err, data)
	}
	if len(back.Documents) != 2 || back.Documents[1] != m.Documents[1] {
		t.Errorf("round trip mismatch:\n%s", data)
	}
}
