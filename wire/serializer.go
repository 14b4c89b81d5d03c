// Package wire implements the binary shape codec: little-endian
// fixed-width primitives, and recursive dispatch over the closed set of
// value shapes (trivial, strings, Optional, Variant, tuple-like, Duration,
// sequences, associative containers, and described aggregates).
//
// Serialize and Deserialize never panic on malformed input; every
// multi-byte read is bounds-checked by the underlying Reader before use.
// A sub-value's failure short-circuits the whole call, the same
// propagation policy the packager relies on above this package.
package wire

import (
	"math"
	"reflect"

	"github.com/rawbytedev/aglio/internal/kindwidth"
	"github.com/rawbytedev/aglio/typedesc"
)

// Writer and Reader are the buffer-view contracts this package encodes
// to and decodes from; wirebuf provides the concrete implementations.
type Writer interface {
	Insert(p []byte) bool
}

type Reader interface {
	Extract(into []byte) bool
	Size() int
	Available() int
	Skip(n int)
	Unskip(n int)
	Span() []byte
}

// Serializer is the codec's entry point. Size is the width used for every
// length-carrying field (sequence/map/set counts, wide Variant
// discriminants); peers must agree on it out of band, the same way they
// must agree on every described type's field order.
type Serializer struct {
	Size SizeWidth
}

// Serialize encodes each of vs in order into w, stopping at the first
// failure. Arguments may be passed by value or by pointer; passing by
// pointer avoids a defensive copy for large values.
func (s Serializer) Serialize(w Writer, vs ...any) bool {
	for _, v := range vs {
		if !s.encodeValue(w, addressableOf(v)) {
			return false
		}
	}
	return true
}

// Deserialize decodes into each of outs in order from r, stopping at the
// first failure. Every element of outs must be a non-nil pointer.
func (s Serializer) Deserialize(r Reader, outs ...any) bool {
	for _, out := range outs {
		rv := reflect.ValueOf(out)
		if rv.Kind() != reflect.Ptr || rv.IsNil() {
			return false
		}
		if !s.decodeValue(r, rv.Elem()) {
			return false
		}
	}
	return true
}

func addressableOf(v any) reflect.Value {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		return rv.Elem()
	}
	nv := reflect.New(rv.Type()).Elem()
	nv.Set(rv)
	return nv
}

// encodeValue and decodeValue are the dispatcher: a shape-wrapper type
// (Optional, Variant, Tuple2/3, Seq, Set) is checked first since it knows
// its own layout; anything else falls through to kind-based rules.
func (s *Serializer) encodeValue(w Writer, rv reflect.Value) bool {
	if rv.CanAddr() {
		if se, ok := rv.Addr().Interface().(shapeEncoder); ok {
			return se.encodeShape(s, w)
		}
	}
	if kindwidth.Trivial(rv.Kind()) {
		return s.encodePrimitive(w, rv)
	}
	switch rv.Kind() {
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if !s.encodeValue(w, rv.Index(i)) {
				return false
			}
		}
		return true
	case reflect.String:
		b := []byte(rv.String())
		return s.putSize(w, uint64(len(b))) && w.Insert(b)
	case reflect.Slice:
		return s.encodeSlice(w, rv)
	case reflect.Map:
		return s.encodeMap(w, rv)
	case reflect.Struct:
		d, ok := typedesc.Lookup(rv.Type())
		if !ok {
			return false
		}
		return d.Apply(rv, func(fv reflect.Value) bool {
			return s.encodeValue(w, fv)
		})
	default:
		return false
	}
}

func (s *Serializer) decodeValue(r Reader, rv reflect.Value) bool {
	if rv.CanAddr() {
		if sd, ok := rv.Addr().Interface().(shapeDecoder); ok {
			return sd.decodeShape(s, r)
		}
	}
	if kindwidth.Trivial(rv.Kind()) {
		return s.decodePrimitive(r, rv)
	}
	switch rv.Kind() {
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if !s.decodeValue(r, rv.Index(i)) {
				return false
			}
		}
		return true
	case reflect.String:
		n, ok := s.getSize(r)
		if !ok || n > uint64(r.Available()) {
			return false
		}
		buf := make([]byte, n)
		if !r.Extract(buf) {
			return false
		}
		rv.SetString(string(buf))
		return true
	case reflect.Slice:
		return s.decodeSlice(r, rv)
	case reflect.Map:
		return s.decodeMap(r, rv)
	case reflect.Struct:
		d, ok := typedesc.Lookup(rv.Type())
		if !ok {
			return false
		}
		return d.Apply(rv, func(fv reflect.Value) bool {
			return s.decodeValue(r, fv)
		})
	default:
		return false
	}
}

// encodeSlice and decodeSlice implement the Seq shape for plain Go
// slices. A slice whose element type is exactly byte takes a single bulk
// Insert/Extract; every other element kind, including wider trivial ones,
// is copied element by element since only the byte case is alignment- and
// endianness-safe to reinterpret directly.
func (s *Serializer) encodeSlice(w Writer, rv reflect.Value) bool {
	n := rv.Len()
	if !s.putSize(w, uint64(n)) {
		return false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return w.Insert(rv.Bytes())
	}
	for i := 0; i < n; i++ {
		if !s.encodeValue(w, rv.Index(i)) {
			return false
		}
	}
	return true
}

func (s *Serializer) decodeSlice(r Reader, rv reflect.Value) bool {
	n, ok := s.getSize(r)
	if !ok {
		return false
	}
	if n > uint64(r.Available()) {
		return false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		buf := make([]byte, n)
		if !r.Extract(buf) {
			return false
		}
		rv.SetBytes(buf)
		return true
	}
	out := reflect.MakeSlice(rv.Type(), int(n), int(n))
	for i := 0; i < int(n); i++ {
		if !s.decodeValue(r, out.Index(i)) {
			return false
		}
	}
	rv.Set(out)
	return true
}

func (s *Serializer) encodeMap(w Writer, rv reflect.Value) bool {
	if !s.putSize(w, uint64(rv.Len())) {
		return false
	}
	iter := rv.MapRange()
	for iter.Next() {
		if !s.encodeValue(w, iter.Key()) {
			return false
		}
		if !s.encodeValue(w, iter.Value()) {
			return false
		}
	}
	return true
}

func (s *Serializer) decodeMap(r Reader, rv reflect.Value) bool {
	n, ok := s.getSize(r)
	if !ok {
		return false
	}
	if n > uint64(r.Available()) {
		return false
	}
	keyType := rv.Type().Key()
	valType := rv.Type().Elem()
	out := reflect.MakeMapWithSize(rv.Type(), int(n))
	for i := uint64(0); i < n; i++ {
		k := reflect.New(keyType).Elem()
		if !s.decodeValue(r, k) {
			return false
		}
		v := reflect.New(valType).Elem()
		if !s.decodeValue(r, v) {
			return false
		}
		out.SetMapIndex(k, v)
	}
	rv.Set(out)
	return true
}

// encodePrimitive and decodePrimitive implement the fixed-width
// little-endian byte image for every trivial kind, including Go-defined
// types sharing one of these kinds (enums) and time.Duration, whose Kind
// is Int64 and whose nanosecond count is exactly its underlying int64.
func (s *Serializer) encodePrimitive(w Writer, rv reflect.Value) bool {
	width := kindwidth.Width(rv.Kind())
	var buf [8]byte
	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			buf[0] = 1
		}
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		putUint(buf[:width], uint64(rv.Int()))
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		putUint(buf[:width], rv.Uint())
	case reflect.Float32:
		putUint(buf[:width], uint64(math.Float32bits(float32(rv.Float()))))
	case reflect.Float64:
		putUint(buf[:width], math.Float64bits(rv.Float()))
	default:
		return false
	}
	return w.Insert(buf[:width])
}

func (s *Serializer) decodePrimitive(r Reader, rv reflect.Value) bool {
	width := kindwidth.Width(rv.Kind())
	if width < 0 {
		return false
	}
	var buf [8]byte
	if !r.Extract(buf[:width]) {
		return false
	}
	switch rv.Kind() {
	case reflect.Bool:
		rv.SetBool(buf[0] != 0)
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		rv.SetInt(int64(getUint(buf[:width])))
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		rv.SetUint(getUint(buf[:width]))
	case reflect.Float32:
		rv.SetFloat(float64(math.Float32frombits(uint32(getUint(buf[:width])))))
	case reflect.Float64:
		rv.SetFloat(math.Float64frombits(getUint(buf[:width])))
	default:
		return false
	}
	return true
}

func putUint(buf []byte, v uint64) {
	for i := range buf {
		buf[i] = byte(v >> (8 * i))
	}
}

func getUint(buf []byte) uint64 {
	var v uint64
	for i, b := range buf {
		v |= uint64(b) << (8 * i)
	}
	return v
}
