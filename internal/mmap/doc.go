// Package mmap maps deck files read-only into memory.
//
// Large decks are decoded straight from the mapping, so the loader never
// holds a second copy of the raw bytes.
//
//	m, err := mmap.Open("deck.json")
//	if err != nil { ... }
//	defer m.Close()
//	data := m.Bytes()
//
// On platforms without mmap support the file is read into memory instead.
package mmap
