package hotreload

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phanxgames/spriter"
)

// newTestWatcher creates a Watcher with pre-built channels for unit testing
// (no fsnotify needed).
func newTestWatcher(dir string) *Watcher {
	ch := make(chan Reload, 16)
	return &Watcher{
		Dir:     dir,
		Reloads: ch,
		reloads: ch,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func fixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("../testdata/player.scon")
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestKeyFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/a/b/player.scon", "player"},
		{"hero.SCON", "hero"},
		{"nested.v2.scon", "nested.v2"},
	}
	for _, tt := range tests {
		if got := KeyFor(tt.path); got != tt.want {
			t.Errorf("KeyFor(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestIsSconFile(t *testing.T) {
	if !isSconFile("x/player.scon") || !isSconFile("PLAYER.SCON") {
		t.Error("expected .scon files to match")
	}
	if isSconFile("player.scml") || isSconFile("atlas.json") {
		t.Error("expected non-.scon files to be ignored")
	}
}

func TestEmitChange_Loaded(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "player.scon")
	if err := os.WriteFile(file, fixture(t), 0o644); err != nil {
		t.Fatal(err)
	}

	w := newTestWatcher(dir)
	w.emitChange(file)
	r := <-w.Reloads

	if r.Err != nil {
		t.Fatalf("unexpected error: %v", r.Err)
	}
	if r.Key != "player" || r.Doc == nil || r.Removed {
		t.Fatalf("reload = %+v", r)
	}
	if _, err := r.Doc.Entity("player"); err != nil {
		t.Error(err)
	}
}

func TestEmitChange_Malformed(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "broken.scon")
	if err := os.WriteFile(file, []byte(`{"folder": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	w := newTestWatcher(dir)
	w.emitChange(file)
	r := <-w.Reloads

	if !errors.Is(r.Err, spriter.ErrMalformedDocument) {
		t.Fatalf("expected ErrMalformedDocument, got %v", r.Err)
	}
	if r.Doc != nil {
		t.Error("expected no document on error")
	}
}

func TestEmitChange_Removed(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(dir)
	w.emitChange(filepath.Join(dir, "gone.scon"))
	r := <-w.Reloads

	if !r.Removed || r.Err != nil || r.Key != "gone" {
		t.Fatalf("reload = %+v", r)
	}
}

func TestApply(t *testing.T) {
	lib := spriter.NewLibrary()
	old, err := lib.Load("player", fixture(t))
	if err != nil {
		t.Fatal(err)
	}

	// A failed parse keeps the old document.
	bad := Reload{Key: "player", Err: errors.New("boom")}
	if err := Apply(lib, bad); err == nil {
		t.Fatal("expected error from failed reload")
	}
	if doc, _ := lib.Select("player"); doc != old {
		t.Error("failed reload replaced the document")
	}

	fresh, err := spriter.LoadDocument(fixture(t), spriter.LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if err := Apply(lib, Reload{Key: "player", Doc: fresh}); err != nil {
		t.Fatal(err)
	}
	if doc, _ := lib.Select("player"); doc != fresh {
		t.Error("reload did not replace the document")
	}

	if err := Apply(lib, Reload{Key: "player", Removed: true}); err != nil {
		t.Fatal(err)
	}
	if _, err := lib.Select("player"); !errors.Is(err, spriter.ErrUnknownDocument) {
		t.Errorf("expected ErrUnknownDocument after removal, got %v", err)
	}
}

func TestWatcher_DetectsWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir, spriter.LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	file := filepath.Join(dir, "player.scon")
	if err := os.WriteFile(file, fixture(t), 0o644); err != nil {
		t.Fatal(err)
	}
	// Ignored: not a .scon file.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case r := <-w.Reloads:
		if r.Key != "player" || r.Err != nil || r.Doc == nil {
			t.Fatalf("reload = %+v", r)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestEmitChange_DropsAfterStop(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "player.scon")
	if err := os.WriteFile(file, fixture(t), 0o644); err != nil {
		t.Fatal(err)
	}

	w := newTestWatcher(dir)
	for i := 0; i < cap(w.reloads); i++ {
		if !w.emitChange(file) {
			t.Fatalf("emit %d dropped with room in the buffer", i)
		}
	}
	close(w.stop)

	sent := make(chan bool, 1)
	go func() { sent <- w.emitChange(file) }()
	select {
	case ok := <-sent:
		if ok {
			t.Error("expected result to be dropped once stopped")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("emitChange blocked on a full channel after stop")
	}
}

func TestWatcher_StopWithoutDraining(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir, spriter.LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	// Fill the buffer so the loop would block on its next send.
	for i := 0; i < cap(w.reloads); i++ {
		w.reloads <- Reload{Key: "filler"}
	}
	if err := os.WriteFile(filepath.Join(dir, "player.scon"), fixture(t), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop deadlocked with an undrained Reloads channel")
	}
}
