package library

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/oukeidos/deskgif/internal/apperrors"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	docPath := filepath.Join(t.TempDir(), "library.json")
	s, err := Open(docPath, Options{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s, docPath
}

func mustCanonical(t *testing.T, raw string) string {
	t.Helper()
	p, err := Canonicalize(raw)
	if err != nil {
		t.Fatalf("Canonicalize(%q): %v", raw, err)
	}
	return p
}

func TestAddTwoDistinctPaths(t *testing.T) {
	s, _ := openTestStore(t)
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.gif")
	p2 := filepath.Join(dir, "b.gif")

	if err := s.Add(p1); err != nil {
		t.Fatalf("Add(p1): %v", err)
	}
	if err := s.Add(p2); err != nil {
		t.Fatalf("Add(p2): %v", err)
	}

	items := s.Items()
	want := []Entry{NewEntry(mustCanonical(t, p1)), NewEntry(mustCanonical(t, p2))}
	if !reflect.DeepEqual(items, want) {
		t.Fatalf("Items() = %+v, want %+v", items, want)
	}
}

func TestAddIsIdempotentAcrossSpellings(t *testing.T) {
	s, _ := openTestStore(t)
	dir := t.TempDir()
	p := filepath.Join(dir, "a.gif")
	if err := os.WriteFile(p, []byte("GIF89a"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := s.Add(p); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.SetSpeed(p, 250); err != nil {
		t.Fatalf("SetSpeed: %v", err)
	}
	before := s.Items()

	spellings := []string{
		filepath.Join(dir, ".", "a.gif"),
		filepath.Join(dir, "sub", "..", "a.gif"),
	}
	if runtime.GOOS != "windows" {
		link := filepath.Join(dir, "link.gif")
		if err := os.Symlink(p, link); err != nil {
			t.Fatalf("symlink: %v", err)
		}
		spellings = append(spellings, link)
	}
	for _, alt := range spellings {
		if err := s.Add(alt); err != nil {
			t.Fatalf("Add(%q): %v", alt, err)
		}
	}

	if got := s.Items(); !reflect.DeepEqual(got, before) {
		t.Fatalf("second Add changed items: got %+v, want %+v", got, before)
	}
}

func TestSetOpacityClamps(t *testing.T) {
	s, _ := openTestStore(t)
	p := filepath.Join(t.TempDir(), "a.gif")
	if err := s.Add(p); err != nil {
		t.Fatalf("Add: %v", err)
	}

	tests := []struct {
		in, want float64
	}{
		{5.0, 1.0},
		{-1.0, 0.1},
		{0.05, 0.1},
		{0.5, 0.5},
		{1.0, 1.0},
		{0.1, 0.1},
	}
	for _, tt := range tests {
		if err := s.SetOpacity(p, tt.in); err != nil {
			t.Fatalf("SetOpacity(%v): %v", tt.in, err)
		}
		if got := s.Opacity(p); got != tt.want {
			t.Errorf("SetOpacity(%v) stored %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRoundTripAfterMutations(t *testing.T) {
	s, docPath := openTestStore(t)
	dir := t.TempDir()
	a := filepath.Join(dir, "a.gif")
	b := filepath.Join(dir, "b.gif")
	c := filepath.Join(dir, "ünïcode & <c>.gif")

	for _, p := range []string{a, b, c} {
		if err := s.Add(p); err != nil {
			t.Fatalf("Add(%q): %v", p, err)
		}
	}
	e, _ := s.Get(b)
	e.Scale, e.PosX, e.PosY, e.Opacity, e.Speed, e.Ghost = 150, -20, 640, 0.35, 80, true
	if err := s.Update(e); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := s.Remove(a); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.SetGhost(c, true); err != nil {
		t.Fatalf("SetGhost: %v", err)
	}

	reloaded, err := Open(docPath, Options{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got, want := reloaded.Items(), s.Items(); !reflect.DeepEqual(got, want) {
		t.Fatalf("reloaded items = %+v, want %+v", got, want)
	}

	data, err := os.ReadFile(docPath)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	if !strings.Contains(string(data), "ünïcode & <c>.gif") {
		t.Fatalf("document escapes characters it should keep literal: %s", data)
	}
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	s, docPath := openTestStore(t)
	p := filepath.Join(t.TempDir(), "a.gif")
	if err := s.Add(p); err != nil {
		t.Fatalf("Add: %v", err)
	}
	before := s.Items()
	info, err := os.Stat(docPath)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	if err := s.Remove(filepath.Join(t.TempDir(), "missing.gif")); err != nil {
		t.Fatalf("Remove(unknown) returned error: %v", err)
	}
	if got := s.Items(); !reflect.DeepEqual(got, before) {
		t.Fatalf("Remove(unknown) changed items: %+v", got)
	}
	after, err := os.Stat(docPath)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !after.ModTime().Equal(info.ModTime()) {
		t.Fatalf("Remove(unknown) rewrote the document")
	}
}

func TestScenarioAddSetSpeedRemove(t *testing.T) {
	s, _ := openTestStore(t)
	raw := filepath.Join(t.TempDir(), "a.gif")
	path := mustCanonical(t, raw)

	if err := s.Add(raw); err != nil {
		t.Fatalf("Add: %v", err)
	}
	want := []Entry{{Path: path, Scale: 100, PosX: 100, PosY: 100, Opacity: 1.0, Speed: 100, Ghost: false}}
	if got := s.Items(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Items() = %+v, want %+v", got, want)
	}

	if err := s.SetSpeed(raw, 200); err != nil {
		t.Fatalf("SetSpeed: %v", err)
	}
	e, ok := s.Get(raw)
	if !ok || e.Speed != 200 {
		t.Fatalf("Get().Speed = %d (ok=%v), want 200", e.Speed, ok)
	}

	if err := s.Remove(raw); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := s.Items(); len(got) != 0 {
		t.Fatalf("Items() after remove = %+v, want empty", got)
	}
}

func TestSettersOnUnknownPathAreNoops(t *testing.T) {
	s, docPath := openTestStore(t)
	p := filepath.Join(t.TempDir(), "ghost.gif")

	if err := s.SetOpacity(p, 0.5); err != nil {
		t.Fatalf("SetOpacity: %v", err)
	}
	if err := s.SetSpeed(p, 300); err != nil {
		t.Fatalf("SetSpeed: %v", err)
	}
	if err := s.SetGhost(p, true); err != nil {
		t.Fatalf("SetGhost: %v", err)
	}
	if err := s.SetScale(p, 50); err != nil {
		t.Fatalf("SetScale: %v", err)
	}
	if err := s.SetPosition(p, 1, 2); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("setters inserted records: %+v", s.Items())
	}
	if _, err := os.Stat(docPath); !os.IsNotExist(err) {
		t.Fatalf("setters on unknown path wrote the document")
	}

	if got := s.Opacity(p); got != DefaultOpacity {
		t.Errorf("Opacity(unknown) = %v", got)
	}
	if got := s.Speed(p); got != DefaultSpeed {
		t.Errorf("Speed(unknown) = %v", got)
	}
	if got := s.Ghost(p); got != DefaultGhost {
		t.Errorf("Ghost(unknown) = %v", got)
	}
	if got := s.Scale(p); got != DefaultScale {
		t.Errorf("Scale(unknown) = %v", got)
	}
	if x, y := s.Position(p); x != DefaultPosX || y != DefaultPosY {
		t.Errorf("Position(unknown) = %d,%d", x, y)
	}
}

func TestSettersFloorScaleAndSpeed(t *testing.T) {
	s, _ := openTestStore(t)
	p := filepath.Join(t.TempDir(), "a.gif")
	if err := s.Add(p); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.SetScale(p, 0); err != nil {
		t.Fatalf("SetScale: %v", err)
	}
	if err := s.SetSpeed(p, -5); err != nil {
		t.Fatalf("SetSpeed: %v", err)
	}
	if got := s.Scale(p); got != MinScale {
		t.Errorf("Scale = %d, want %d", got, MinScale)
	}
	if got := s.Speed(p); got != MinSpeed {
		t.Errorf("Speed = %d, want %d", got, MinSpeed)
	}
}

func TestUpdateNormalizesAndKeepsOrder(t *testing.T) {
	s, _ := openTestStore(t)
	dir := t.TempDir()
	a := filepath.Join(dir, "a.gif")
	b := filepath.Join(dir, "b.gif")
	for _, p := range []string{a, b} {
		if err := s.Add(p); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	if err := s.Update(Entry{Path: a, Scale: -3, Opacity: 9, Speed: 0}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	items := s.Items()
	if items[0].Path != mustCanonical(t, a) {
		t.Fatalf("Update moved the record: %+v", items)
	}
	got := items[0]
	if got.Scale != MinScale || got.Opacity != MaxOpacity || got.Speed != MinSpeed {
		t.Fatalf("Update did not normalize: %+v", got)
	}
	if got.PosX != 0 || got.PosY != 0 {
		t.Fatalf("Update did not overwrite wholesale: %+v", got)
	}
}

func TestSaveOverlayState(t *testing.T) {
	s, _ := openTestStore(t)
	p := filepath.Join(t.TempDir(), "a.gif")
	if err := s.Add(p); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.SetGhost(p, true); err != nil {
		t.Fatalf("SetGhost: %v", err)
	}

	if err := s.SaveOverlayState(p, 321, 654, 75, 0.4, 150); err != nil {
		t.Fatalf("SaveOverlayState: %v", err)
	}
	e, ok := s.Get(p)
	if !ok {
		t.Fatalf("record missing after SaveOverlayState")
	}
	want := Entry{Path: mustCanonical(t, p), Scale: 75, PosX: 321, PosY: 654, Opacity: 0.4, Speed: 150, Ghost: true}
	if e != want {
		t.Fatalf("record = %+v, want %+v", e, want)
	}

	t.Run("RemovedWhileOpen", func(t *testing.T) {
		if err := s.Remove(p); err != nil {
			t.Fatalf("Remove: %v", err)
		}
		if err := s.SaveOverlayState(p, 1, 2, 100, 1, 100); err != nil {
			t.Fatalf("SaveOverlayState: %v", err)
		}
		e, ok := s.Get(p)
		if !ok {
			t.Fatalf("closing overlay did not re-create the record")
		}
		if e.Ghost {
			t.Fatalf("re-created record should carry default ghost flag")
		}
	})
}

func TestEmptyPathIsInvalidInput(t *testing.T) {
	s, _ := openTestStore(t)
	for name, fn := range map[string]func() error{
		"Add":       func() error { return s.Add("  ") },
		"Remove":    func() error { return s.Remove("") },
		"Update":    func() error { return s.Update(Entry{}) },
		"SetGhost":  func() error { return s.SetGhost("", true) },
		"SaveState": func() error { return s.SaveOverlayState("", 0, 0, 100, 1, 100) },
	} {
		if err := fn(); !apperrors.Is(err, apperrors.KindInvalidInput) {
			t.Errorf("%s(\"\") error = %v, want invalid_input", name, err)
		}
	}
	if _, ok := s.Get(""); ok {
		t.Errorf("Get(\"\") reported a record")
	}
}
