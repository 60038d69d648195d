package render

import (
	"bytes"
	"sync"
)

// Surface is the host print collaborator: it opens a rendering surface
// the finished document is written to. An Open failure (e.g. the host
// blocks the surface) is terminal for that print attempt.
type Surface interface {
	Open(title string) (Document, error)
}

// Document is one open print surface. The renderer's only contract is
// "write the complete document, close it, then invoke Print".
type Document interface {
	Write(p []byte) (int, error)
	Close() error
	Print() error
}

// MemorySurface is an in-process Surface that buffers documents. It
// backs the service's print flow and the tests.
type MemorySurface struct {
	mu   sync.Mutex
	docs []*MemoryDocument
}

var _ Surface = (*MemorySurface)(nil)

// NewMemorySurface creates an empty in-memory surface.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{}
}

// Open implements Surface.
func (s *MemorySurface) Open(title string) (Document, error) {
	doc := &MemoryDocument{title: title}
	s.mu.Lock()
	s.docs = append(s.docs, doc)
	s.mu.Unlock()
	return doc, nil
}

// Documents returns every document opened so far.
func (s *MemorySurface) Documents() []*MemoryDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*MemoryDocument(nil), s.docs...)
}

// MemoryDocument is a buffered Document.
type MemoryDocument struct {
	mu      sync.Mutex
	title   string
	buf     bytes.Buffer
	closed  bool
	printed bool
}

// Title returns the title the document was opened with.
func (d *MemoryDocument) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.title
}

// Write implements Document.
func (d *MemoryDocument) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Write(p)
}

// Close implements Document.
func (d *MemoryDocument) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Print implements Document.
func (d *MemoryDocument) Print() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.printed = true
	return nil
}

// HTML returns everything written to the document.
func (d *MemoryDocument) HTML() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.String()
}

// Printed reports whether Print has been invoked.
func (d *MemoryDocument) Printed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.printed
}

// Closed reports whether the document was closed after writing.
func (d *MemoryDocument) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}
