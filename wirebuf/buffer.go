// Package wirebuf provides the buffer-view adapters the codec and
// packager read and write through: a growable writer/reader over a byte
// slice, a bounded fixed-capacity writer, a write-only io.Writer sink, and
// the packager's nested view used to reserve a header region while the
// body is serialized into a logically-empty child buffer.
//
// These mirror the source's DynamicSerializationView / FixedWritableBuffer
// / StreamSerializationView trio (spec section 4.2): two narrow
// contracts, Writer and Reader, rather than one fat interface.
package wirebuf

import "io"

// Writer appends bytes at the current write position. A growable writer
// never fails; a bounded writer fails (returns false) once its capacity is
// exhausted.
type Writer interface {
	Insert(p []byte) bool
}

// Reader copies bytes from the current read position and advances past
// them, failing iff fewer bytes than requested remain available.
type Reader interface {
	Extract(into []byte) bool
	Size() int
	Available() int
	Skip(n int)
	Unskip(n int)
	Span() []byte
}

// Dynamic is a growable byte-slice writer and reader. The zero value is an
// empty buffer: it accepts writes and has nothing to read.
// NewDynamicWriter and NewDynamicReader wrap an existing slice.
type Dynamic struct {
	buf []byte
	pos int
}

// NewDynamicWriter wraps buf for appending after its existing contents.
// Bytes() returns the whole buffer, those contents included, and Len() the
// write position at its end.
func NewDynamicWriter(buf []byte) *Dynamic {
	return &Dynamic{buf: buf, pos: len(buf)}
}

// NewDynamicReader wraps buf for sequential extraction starting at offset 0.
func NewDynamicReader(buf []byte) *Dynamic {
	return &Dynamic{buf: buf}
}

func (d *Dynamic) Insert(p []byte) bool {
	if len(p) == 0 {
		return true
	}
	d.buf = append(d.buf, p...)
	d.pos += len(p)
	return true
}

// Bytes returns the underlying buffer written so far.
func (d *Dynamic) Bytes() []byte { return d.buf }

// Len returns the current position; for a writer this is the length of the
// buffer, including any bytes it held when it was wrapped.
func (d *Dynamic) Len() int { return d.pos }

func (d *Dynamic) Size() int { return len(d.buf) }

func (d *Dynamic) Available() int { return len(d.buf) - d.pos }

func (d *Dynamic) Skip(n int) { d.pos += n }

func (d *Dynamic) Unskip(n int) { d.pos -= n }

func (d *Dynamic) Span() []byte { return d.buf[d.pos:] }

func (d *Dynamic) Extract(into []byte) bool {
	if len(into) == 0 {
		return true
	}
	if len(into) > d.Available() {
		return false
	}
	copy(into, d.buf[d.pos:d.pos+len(into)])
	d.pos += len(into)
	return true
}

// Fixed is a bounded writer over a caller-supplied, fixed-capacity slice.
// Insert fails once the slice is full, the Go analogue of the source's
// fixed writable buffer.
type Fixed struct {
	buf []byte
	pos int
}

// NewFixedWriter wraps a capacity-bounded destination slice. cap(dst) is
// the hard limit; len(dst) is ignored and overwritten from position 0.
func NewFixedWriter(dst []byte) *Fixed {
	return &Fixed{buf: dst[:0:cap(dst)]}
}

func (f *Fixed) Insert(p []byte) bool {
	if len(p) == 0 {
		return true
	}
	if len(f.buf)+len(p) > cap(f.buf) {
		return false
	}
	f.buf = append(f.buf, p...)
	f.pos += len(p)
	return true
}

// Bytes returns what has been written so far.
func (f *Fixed) Bytes() []byte { return f.buf }

// Stream adapts a write-only io.Writer sink. Insert reports sink failure
// as a decode-style bool rather than propagating the underlying error;
// callers needing the error should wrap their io.Writer to capture it.
type Stream struct {
	w   io.Writer
	err error
}

// NewStreamWriter wraps an io.Writer for use as a Writer.
func NewStreamWriter(w io.Writer) *Stream {
	return &Stream{w: w}
}

func (s *Stream) Insert(p []byte) bool {
	if len(p) == 0 {
		return true
	}
	if s.err != nil {
		return false
	}
	n, err := s.w.Write(p)
	if err != nil || n != len(p) {
		s.err = err
		return false
	}
	return true
}

// Err returns the first write error observed, if any.
func (s *Stream) Err() error { return s.err }

// Nested layers a child view over an outer Dynamic buffer: it remembers a
// start offset into the parent and presents a zero-based view of
// everything the child itself appends beyond that offset. The packager
// uses this to reserve a frame header, serialize the body into the child,
// then go back and fix up the header in the parent's storage — spec
// section 4.2's "nested buffer adapter".
type Nested struct {
	parent *Dynamic
	start  int
}

// NewNested returns a child view whose position 0 is the parent's current
// end of buffer.
func NewNested(parent *Dynamic) *Nested {
	return &Nested{parent: parent, start: len(parent.buf)}
}

func (n *Nested) Insert(p []byte) bool {
	return n.parent.Insert(p)
}

// Len is the number of bytes the child itself has appended since creation.
func (n *Nested) Len() int {
	return len(n.parent.buf) - n.start
}

// ParentBytes returns the parent's full underlying buffer, for in-place
// header fix-ups at absolute offsets.
func (n *Nested) ParentBytes() []byte { return n.parent.buf }

// Start is the absolute offset in the parent at which this child begins.
func (n *Nested) Start() int { return n.start }
