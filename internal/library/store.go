package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/oukeidos/deskgif/internal/apperrors"
	"github.com/oukeidos/deskgif/internal/files"
	"github.com/oukeidos/deskgif/internal/logger"
)

const documentPerms = 0600

// Options controls how Open treats the persisted document.
type Options struct {
	// QuarantineCorrupt moves a damaged document aside and starts with an
	// empty library instead of failing.
	QuarantineCorrupt bool
}

// Store maps canonical paths to records and rewrites the whole JSON
// document after every mutation. Records keep insertion order.
type Store struct {
	mu          sync.Mutex
	path        string
	order       []string
	items       map[string]*Entry
	quarantined string
}

// Open creates a store backed by the document at path and loads it. A
// missing document yields an empty library. A damaged document is an
// apperrors.KindCorruptLibrary error unless opts.QuarantineCorrupt is set.
func Open(path string, opts Options) (*Store, error) {
	resolved, err := files.ResolveParent(path)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	s := &Store{
		path:  resolved,
		items: make(map[string]*Entry),
	}
	if err := s.load(opts); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the location of the backing document.
func (s *Store) Path() string {
	return s.path
}

// Quarantined returns where a damaged document was moved during Open, or ""
// if nothing was moved.
func (s *Store) Quarantined() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quarantined
}

func (s *Store) load(opts Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("Library file not found; starting empty", "path", s.path)
		return nil
	}
	if err != nil {
		return apperrors.Storage(fmt.Errorf("read %s: %w", s.path, err))
	}

	entries, err := decodeDocument(data)
	if err != nil {
		corrupt := apperrors.CorruptLibrary(fmt.Errorf("%s: %w", s.path, err))
		if !opts.QuarantineCorrupt {
			return corrupt
		}
		dest, qerr := files.Quarantine(s.path)
		if qerr != nil {
			return errors.Join(corrupt, apperrors.Storage(qerr))
		}
		logger.Warn("Library file was damaged and has been moved aside", "path", s.path, "moved_to", dest, "error", err)
		s.quarantined = dest
		return nil
	}

	for _, e := range entries {
		s.put(e)
	}
	logger.Debug("Library loaded", "path", s.path, "entries", len(s.order))
	return nil
}

func (s *Store) reset() {
	s.order = nil
	s.items = make(map[string]*Entry)
}

// put inserts or replaces a record. A replaced record keeps its position.
func (s *Store) put(e Entry) {
	if existing, ok := s.items[e.Path]; ok {
		*existing = e
		return
	}
	stored := e
	s.items[e.Path] = &stored
	s.order = append(s.order, e.Path)
}

func (s *Store) delete(path string) {
	delete(s.items, path)
	for i, p := range s.order {
		if p == path {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

func (s *Store) snapshot() []Entry {
	out := make([]Entry, 0, len(s.order))
	for _, p := range s.order {
		out = append(out, *s.items[p])
	}
	return out
}

// Save writes the full library to disk. Callers normally do not need it:
// every mutating method saves on its own.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

func (s *Store) save() error {
	data, err := encodeDocument(s.snapshot())
	if err != nil {
		return apperrors.Storage(fmt.Errorf("encode library: %w", err))
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return apperrors.Storage(fmt.Errorf("create library directory: %w", err))
	}
	// Resolved after MkdirAll: the directory may be new. A symlinked
	// document is followed.
	target, err := files.ResolveExisting(s.path)
	if err != nil {
		return apperrors.Storage(fmt.Errorf("resolve %s: %w", s.path, err))
	}
	if err := files.AtomicWrite(target, data, documentPerms); err != nil {
		return apperrors.Storage(fmt.Errorf("write %s: %w", target, err))
	}
	return nil
}

// Add inserts a default record for raw if its canonical path is not present
// yet. Adding a path that is already present is a no-op.
func (s *Store) Add(raw string) error {
	path, err := Canonicalize(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[path]; ok {
		return nil
	}
	s.put(NewEntry(path))
	logger.Debug("Library entry added", "path", path)
	return s.save()
}

// Remove deletes the record for raw. Unknown paths are a no-op.
func (s *Store) Remove(raw string) error {
	path, err := Canonicalize(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[path]; !ok {
		return nil
	}
	s.delete(path)
	logger.Debug("Library entry removed", "path", path)
	return s.save()
}

// Update replaces the record stored at e.Path wholesale, inserting it if
// absent. Numeric fields are normalized first.
func (s *Store) Update(e Entry) error {
	path, err := Canonicalize(e.Path)
	if err != nil {
		return err
	}
	e.Path = path
	e = e.Normalized()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(e)
	logger.Debug("Library entry updated", "path", path, "scale", e.Scale, "opacity", e.Opacity, "speed", e.Speed)
	return s.save()
}

// Get returns the record for raw. The bool is false if the path is unknown;
// callers supply defaults themselves in that case.
func (s *Store) Get(raw string) (Entry, bool) {
	path, err := Canonicalize(raw)
	if err != nil {
		return Entry{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[path]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Has reports whether raw has a record.
func (s *Store) Has(raw string) bool {
	_, ok := s.Get(raw)
	return ok
}

// Items returns a snapshot of all records in insertion order.
func (s *Store) Items() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// mutate applies fn to the record for raw and saves. Unknown paths are a
// no-op.
func (s *Store) mutate(raw, field string, fn func(*Entry)) error {
	path, err := Canonicalize(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[path]
	if !ok {
		return nil
	}
	fn(e)
	logger.Debug("Library entry field set", "path", path, "field", field)
	return s.save()
}

// SetOpacity stores v clamped into [MinOpacity, MaxOpacity].
func (s *Store) SetOpacity(raw string, v float64) error {
	return s.mutate(raw, "opacity", func(e *Entry) { e.Opacity = ClampOpacity(v) })
}

// SetSpeed stores the playback speed percentage, floored at MinSpeed.
func (s *Store) SetSpeed(raw string, speed int) error {
	return s.mutate(raw, "speed", func(e *Entry) { e.Speed = FloorSpeed(speed) })
}

// SetGhost stores the click-through flag.
func (s *Store) SetGhost(raw string, ghost bool) error {
	return s.mutate(raw, "ghost", func(e *Entry) { e.Ghost = ghost })
}

// SetScale stores the scale percentage, floored at MinScale.
func (s *Store) SetScale(raw string, scale int) error {
	return s.mutate(raw, "scale", func(e *Entry) { e.Scale = FloorScale(scale) })
}

// SetPosition stores the overlay's top-left corner.
func (s *Store) SetPosition(raw string, x, y int) error {
	return s.mutate(raw, "position", func(e *Entry) {
		e.PosX = x
		e.PosY = y
	})
}

// Opacity returns the stored opacity, or DefaultOpacity for unknown paths.
func (s *Store) Opacity(raw string) float64 {
	if e, ok := s.Get(raw); ok {
		return e.Opacity
	}
	return DefaultOpacity
}

// Speed returns the stored speed, or DefaultSpeed for unknown paths.
func (s *Store) Speed(raw string) int {
	if e, ok := s.Get(raw); ok {
		return e.Speed
	}
	return DefaultSpeed
}

// Ghost returns the stored ghost flag, or DefaultGhost for unknown paths.
func (s *Store) Ghost(raw string) bool {
	if e, ok := s.Get(raw); ok {
		return e.Ghost
	}
	return DefaultGhost
}

// Scale returns the stored scale, or DefaultScale for unknown paths.
func (s *Store) Scale(raw string) int {
	if e, ok := s.Get(raw); ok {
		return e.Scale
	}
	return DefaultScale
}

// Position returns the stored position, or the default for unknown paths.
func (s *Store) Position(raw string) (int, int) {
	if e, ok := s.Get(raw); ok {
		return e.PosX, e.PosY
	}
	return DefaultPosX, DefaultPosY
}

// EntryOrDefault returns the record for raw, or a default record for its
// canonical path.
func (s *Store) EntryOrDefault(raw string) (Entry, error) {
	if e, ok := s.Get(raw); ok {
		return e, nil
	}
	path, err := Canonicalize(raw)
	if err != nil {
		return Entry{}, err
	}
	return NewEntry(path), nil
}

// SaveOverlayState records the final geometry and settings reported by a
// closing overlay. The record is re-created if it was removed while the
// overlay was open. Ghost mode is left untouched.
func (s *Store) SaveOverlayState(path string, x, y, scale int, opacity float64, speed int) error {
	e, err := s.EntryOrDefault(path)
	if err != nil {
		return err
	}
	e.PosX, e.PosY = x, y
	e.Scale = scale
	e.Opacity = opacity
	e.Speed = speed
	return s.Update(e)
}
