// Package template looks up the extended system-notice text templates a
// MSG_SYSTEM frame references by (category, instance). The table is loaded
// once from a tab-separated data file and threaded as a value rather than
// kept as global state, so a process can hold more than one and tests never
// touch shared mutable state.
package template

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Store holds the (category, instance) -> template text table.
type Store struct {
	texts map[int32]map[int32]string
}

// New returns an empty Store.
func New() Store {
	return Store{texts: make(map[int32]map[int32]string)}
}

// Load reads a tab-separated "category\tinstance\tmessage" data file and
// returns a populated Store.
func Load(path string) (Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return Store{}, fmt.Errorf("template: opening %s: %w", path, err)
	}
	defer f.Close()
	return LoadFrom(f)
}

// LoadFrom reads the same tab-separated format as Load from an arbitrary
// reader.
func LoadFrom(r io.Reader) (Store, error) {
	s := New()
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		row := strings.TrimRight(sc.Text(), "\r\n")
		if row == "" {
			continue
		}
		parts := strings.SplitN(row, "\t", 3)
		if len(parts) != 3 {
			return Store{}, fmt.Errorf("template: line %d: expected 3 tab-separated fields, got %d", line, len(parts))
		}
		category, err := strconv.ParseInt(parts[0], 10, 32)
		if err != nil {
			return Store{}, fmt.Errorf("template: line %d: bad category %q: %w", line, parts[0], err)
		}
		instance, err := strconv.ParseInt(parts[1], 10, 32)
		if err != nil {
			return Store{}, fmt.Errorf("template: line %d: bad instance %q: %w", line, parts[1], err)
		}
		s.Set(int32(category), int32(instance), parts[2])
	}
	if err := sc.Err(); err != nil {
		return Store{}, fmt.Errorf("template: scanning: %w", err)
	}
	return s, nil
}

// Set installs or replaces the template text for (category, instance).
func (s Store) Set(category, instance int32, message string) {
	byInstance, ok := s.texts[category]
	if !ok {
		byInstance = make(map[int32]string)
		s.texts[category] = byInstance
	}
	byInstance[instance] = message
}

// Get returns the template text for (category, instance) and whether it was
// found.
func (s Store) Get(category, instance int32) (string, bool) {
	byInstance, ok := s.texts[category]
	if !ok {
		return "", false
	}
	msg, ok := byInstance[instance]
	return msg, ok
}
