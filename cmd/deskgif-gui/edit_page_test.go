package main

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/oukeidos/deskgif/internal/apperrors"
	"github.com/oukeidos/deskgif/internal/library"
)

func newTestEditPage(t *testing.T) (*editPage, string) {
	t.Helper()
	store, err := library.Open(filepath.Join(t.TempDir(), "library.json"), library.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	path := filepath.Join(t.TempDir(), "a.gif")
	if err := store.Add(path); err != nil {
		t.Fatalf("Add: %v", err)
	}
	p := newEditPage(store, []int{50, 100}, nil)
	p.show(path)
	return p, path
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"150", 150, false},
		{" 75% ", 75, false},
		{"0", 0, false},
		{"fast", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parsePercent(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parsePercent(%q) = %d, %v", tt.in, got, err)
		}
		if err != nil && !apperrors.Is(err, apperrors.KindInvalidInput) {
			t.Errorf("parsePercent(%q) error kind = %v", tt.in, err)
		}
	}
}

func TestScaleOptionsIncludeCurrent(t *testing.T) {
	tests := []struct {
		current int
		want    []string
	}{
		{100, []string{"50%", "100%", "200%"}},
		{33, []string{"33%", "50%", "100%", "200%"}},
		{150, []string{"50%", "100%", "150%", "200%"}},
	}
	for _, tt := range tests {
		got := scaleOptions([]int{50, 100, 200}, tt.current)
		if !slices.Equal(got, tt.want) {
			t.Errorf("scaleOptions(%d) = %v, want %v", tt.current, got, tt.want)
		}
	}
}

func TestEditPageCommitsToStore(t *testing.T) {
	p, path := newTestEditPage(t)
	if err := p.commitOpacity(0.3); err != nil {
		t.Fatalf("commitOpacity: %v", err)
	}
	if err := p.commitSpeed("0"); err != nil {
		t.Fatalf("commitSpeed: %v", err)
	}
	if err := p.commitScale("50%"); err != nil {
		t.Fatalf("commitScale: %v", err)
	}
	if err := p.commitPosition("-10", "20"); err != nil {
		t.Fatalf("commitPosition: %v", err)
	}
	if err := p.commitGhost(true); err != nil {
		t.Fatalf("commitGhost: %v", err)
	}
	e, _ := p.store.Get(path)
	want := library.Entry{Path: e.Path, Scale: 50, PosX: -10, PosY: 20, Opacity: 0.3, Speed: 1, Ghost: true}
	if e != want {
		t.Fatalf("record = %+v, want %+v", e, want)
	}
}

func TestEditPageRejectsBadInput(t *testing.T) {
	p, path := newTestEditPage(t)
	if err := p.commitSpeed("quick"); !apperrors.Is(err, apperrors.KindInvalidInput) {
		t.Fatalf("commitSpeed error = %v", err)
	}
	if err := p.commitPosition("1", "x"); !apperrors.Is(err, apperrors.KindInvalidInput) {
		t.Fatalf("commitPosition error = %v", err)
	}
	if got := p.store.Speed(path); got != library.DefaultSpeed {
		t.Fatalf("speed changed to %d", got)
	}
}

func TestEditPageInactiveIsNoop(t *testing.T) {
	p, path := newTestEditPage(t)
	p.clear()
	if err := p.commitGhost(true); err != nil {
		t.Fatalf("commitGhost: %v", err)
	}
	if p.store.Ghost(path) {
		t.Fatal("cleared page still wrote to the store")
	}
	p.show(path)
	p.loading = true
	if err := p.commitOpacity(0.2); err != nil || p.store.Opacity(path) != library.DefaultOpacity {
		t.Fatal("commit while loading wrote to the store")
	}
}
