package changelog

import (
	"encoding/json"
	"fmt"
	"io"
)

// RenderJSON writes entries as an indented JSON array in their original order.
func RenderJSON(w io.Writer, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling entries: %w", err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing entries: %w", err)
	}
	return nil
}

// ParseJSON decodes entries previously written by RenderJSON.
func ParseJSON(r io.Reader) ([]Entry, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding entries: %w", err)
	}
	return entries, nil
}
