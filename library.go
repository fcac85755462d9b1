package spriter

import (
	"fmt"
	"log"
	"slices"
)

// Library maps document keys to loaded Documents (and their optional
// atlases). It replaces a process-wide registry: create one, load documents
// into it, and hand it to whatever creates Entities.
//
// A Library is not safe for concurrent mutation. Documents it returns are
// read-only and may be shared freely.
type Library struct {
	docs    map[string]*Document
	atlases map[string]*Atlas
	debug   bool
	logger  *log.Logger
}

// NewLibrary creates an empty library.
func NewLibrary() *Library {
	return &Library{
		docs:    make(map[string]*Document),
		atlases: make(map[string]*Atlas),
	}
}

// SetDebugMode enables or disables debug warnings for documents loaded
// after the call. logger may be nil to use log.Default().
func (l *Library) SetDebugMode(enabled bool, logger *log.Logger) {
	l.debug = enabled
	l.logger = logger
}

// Load parses SCON data and registers the resulting Document under key,
// replacing any previous document with that key. On error the library is
// unchanged.
func (l *Library) Load(key string, jsonData []byte) (*Document, error) {
	doc, err := LoadDocument(jsonData, LoadOptions{Debug: l.debug, Logger: l.logger})
	if err != nil {
		return nil, fmt.Errorf("spriter: load %q: %w", key, err)
	}
	l.Register(key, doc)
	return doc, nil
}

// Register stores doc under key, replacing any previous document. Entities
// created from the old document keep using it.
func (l *Library) Register(key string, doc *Document) {
	if doc == nil {
		panic("spriter: cannot register nil document")
	}
	l.docs[key] = doc
}

// Unregister removes the document and atlas stored under key.
func (l *Library) Unregister(key string) {
	delete(l.docs, key)
	delete(l.atlases, key)
}

// Select returns the document registered under key.
func (l *Library) Select(key string) (*Document, error) {
	doc, ok := l.docs[key]
	if !ok {
		return nil, fmt.Errorf("spriter: document %q: %w", key, ErrUnknownDocument)
	}
	return doc, nil
}

// Keys returns the registered document keys in sorted order.
func (l *Library) Keys() []string {
	keys := make([]string, 0, len(l.docs))
	for k := range l.docs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// SetAtlas associates a texture atlas with the document key. The atlas is
// what a rendering bridge uses to map element names to images.
func (l *Library) SetAtlas(key string, atlas *Atlas) {
	l.atlases[key] = atlas
}

// Atlas returns the atlas associated with key, or nil.
func (l *Library) Atlas(key string) *Atlas {
	return l.atlases[key]
}

// NewEntity creates an Entity for the named entity of the document under key.
func (l *Library) NewEntity(key, entity string) (*Entity, error) {
	doc, err := l.Select(key)
	if err != nil {
		return nil, err
	}
	def, err := doc.Entity(entity)
	if err != nil {
		return nil, err
	}
	return NewEntity(def), nil
}
