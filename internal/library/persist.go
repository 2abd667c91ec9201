package library

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var errMissingPath = errors.New("entry has no path")

// decodeDocument parses the persisted JSON array. Each object is decoded
// onto a default record, so fields absent from older documents keep their
// current defaults and unknown fields are ignored.
func decodeDocument(data []byte) ([]Entry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("library document is not a JSON array of objects: %w", err)
	}
	entries := make([]Entry, 0, len(raw))
	for i, msg := range raw {
		entry, err := decodeEntry(msg)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func decodeEntry(msg json.RawMessage) (Entry, error) {
	if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
		return Entry{}, errMissingPath
	}
	entry := NewEntry("")
	if err := json.Unmarshal(msg, &entry); err != nil {
		return Entry{}, err
	}
	if entry.Path == "" {
		return Entry{}, errMissingPath
	}
	return entry.Normalized(), nil
}

// encodeDocument renders entries as an indented JSON array. Non-ASCII
// characters and HTML-significant characters are written literally.
func encodeDocument(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
