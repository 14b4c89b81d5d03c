package wire

import (
	"fmt"
	"reflect"
)

// shapeEncoder is implemented by the generic wrapper shapes below once
// their type parameters are bound, letting the dispatcher treat them as
// ordinary Go types rather than re-deriving their layout through
// reflection on every call.
type shapeEncoder interface {
	encodeShape(s *Serializer, w Writer) bool
}

type shapeDecoder interface {
	decodeShape(s *Serializer, r Reader) bool
}

// Optional is present-or-absent wrapping of T: a one-byte presence flag
// followed by the encoded Value iff present. A presence byte other than 0
// or 1 is a decode failure, per the codec's accepted resolution of
// spec's "non-canonical Optional tag" open question.
type Optional[T any] struct {
	Valid bool
	Value T
}

// Some constructs a present Optional.
func Some[T any](v T) Optional[T] { return Optional[T]{Valid: true, Value: v} }

// None constructs an absent Optional.
func None[T any]() Optional[T] { return Optional[T]{} }

func (o *Optional[T]) encodeShape(s *Serializer, w Writer) bool {
	var flag byte
	if o.Valid {
		flag = 1
	}
	if !w.Insert([]byte{flag}) {
		return false
	}
	if !o.Valid {
		return true
	}
	return s.encodeValue(w, reflect.ValueOf(&o.Value).Elem())
}

func (o *Optional[T]) decodeShape(s *Serializer, r Reader) bool {
	var flag [1]byte
	if !r.Extract(flag[:]) {
		return false
	}
	switch flag[0] {
	case 0:
		o.Valid = false
		var zero T
		o.Value = zero
		return true
	case 1:
		o.Valid = true
		return s.decodeValue(r, reflect.ValueOf(&o.Value).Elem())
	default:
		return false
	}
}

// Tuple2 is a fixed, heterogeneous pair encoded as First then Second with
// no length prefix, the Go analogue of std::pair.
type Tuple2[A, B any] struct {
	First  A
	Second B
}

func (t *Tuple2[A, B]) encodeShape(s *Serializer, w Writer) bool {
	return s.encodeValue(w, reflect.ValueOf(&t.First).Elem()) &&
		s.encodeValue(w, reflect.ValueOf(&t.Second).Elem())
}

func (t *Tuple2[A, B]) decodeShape(s *Serializer, r Reader) bool {
	return s.decodeValue(r, reflect.ValueOf(&t.First).Elem()) &&
		s.decodeValue(r, reflect.ValueOf(&t.Second).Elem())
}

// Tuple3 is Tuple2 extended to three elements, the analogue of
// std::tuple<A, B, C>.
type Tuple3[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

func (t *Tuple3[A, B, C]) encodeShape(s *Serializer, w Writer) bool {
	return s.encodeValue(w, reflect.ValueOf(&t.First).Elem()) &&
		s.encodeValue(w, reflect.ValueOf(&t.Second).Elem()) &&
		s.encodeValue(w, reflect.ValueOf(&t.Third).Elem())
}

func (t *Tuple3[A, B, C]) decodeShape(s *Serializer, r Reader) bool {
	return s.decodeValue(r, reflect.ValueOf(&t.First).Elem()) &&
		s.decodeValue(r, reflect.ValueOf(&t.Second).Elem()) &&
		s.decodeValue(r, reflect.ValueOf(&t.Third).Elem())
}

// Seq is an explicit sequence wrapper over a slice, encoded as a
// Size-width element count followed by each element in order. Plain Go
// slices ([]T passed directly) take the same path through the
// dispatcher's reflect.Slice case; Seq[T] exists for callers that want
// the shape spelled out in a struct's field type, the way the source
// spells out std::vector<T> explicitly.
type Seq[T any] []T

func (sq *Seq[T]) encodeShape(s *Serializer, w Writer) bool {
	return s.encodeSlice(w, reflect.ValueOf(*sq))
}

func (sq *Seq[T]) decodeShape(s *Serializer, r Reader) bool {
	rv := reflect.ValueOf(sq).Elem()
	return s.decodeSlice(r, rv)
}

// Set is an associative container of unique, unordered elements, encoded
// as a Size-width count followed by each element. Decoding builds the map
// by insertion, so a wire stream containing a duplicate key simply
// collapses to one entry, matching Go's own map semantics.
type Set[T comparable] map[T]struct{}

func (st Set[T]) encodeShape(s *Serializer, w Writer) bool {
	if !s.putSize(w, uint64(len(st))) {
		return false
	}
	for k := range st {
		if !s.encodeValue(w, reflect.ValueOf(k)) {
			return false
		}
	}
	return true
}

func (st *Set[T]) decodeShape(s *Serializer, r Reader) bool {
	n, ok := s.getSize(r)
	if !ok {
		return false
	}
	if n > uint64(r.Available()) {
		return false
	}
	out := make(Set[T], n)
	for i := uint64(0); i < n; i++ {
		var k T
		kv := reflect.ValueOf(&k).Elem()
		if !s.decodeValue(r, kv) {
			return false
		}
		out[k] = struct{}{}
	}
	*st = out
	return true
}

// Variant is an ordered, fixed-at-construction list of alternative types
// carrying exactly one active value at a time, the analogue of
// std::variant<Ts...>. The discriminant is one byte when there are 255 or
// fewer alternatives, otherwise the serializer's configured Size width.
type Variant struct {
	protos []any
	tag    int
	val    any
}

// NewVariant declares the ordered alternative list. Each element of protos
// must be a typed pointer (nil is fine) whose element type is one
// alternative type, e.g. NewVariant((*int32)(nil), (*string)(nil)).
func NewVariant(protos ...any) *Variant {
	return &Variant{protos: protos, tag: -1}
}

// Set selects alternative tag and stores val, which must match the type of
// protos[tag]. val is boxed into a fresh *T pointer internally, the same
// representation decodeShape produces, so Value always returns a pointer
// to the active alternative regardless of whether it arrived via Set or
// via decoding.
func (v *Variant) Set(tag int, val any) error {
	if tag < 0 || tag >= len(v.protos) {
		return fmt.Errorf("wire: variant tag %d out of range [0,%d)", tag, len(v.protos))
	}
	want := reflect.TypeOf(v.protos[tag]).Elem()
	got := reflect.TypeOf(val)
	if got != want {
		return fmt.Errorf("wire: variant tag %d wants %s, got %s", tag, want, got)
	}
	ptr := reflect.New(want)
	ptr.Elem().Set(reflect.ValueOf(val))
	v.tag = tag
	v.val = ptr.Interface()
	return nil
}

// Tag returns the active alternative's index, or -1 if unset.
func (v *Variant) Tag() int { return v.tag }

// Value returns a pointer to the active alternative's value.
func (v *Variant) Value() any { return v.val }

func (v *Variant) discWidth(s *Serializer) int {
	if len(v.protos) <= 255 {
		return 1
	}
	return s.Size.Bytes()
}

func (v *Variant) encodeShape(s *Serializer, w Writer) bool {
	if v.tag < 0 {
		return false
	}
	n := v.discWidth(s)
	var buf [8]byte
	if n == 1 {
		buf[0] = byte(v.tag)
	} else {
		s.Size.Put(buf[:n], uint64(v.tag))
	}
	if !w.Insert(buf[:n]) {
		return false
	}
	return s.encodeValue(w, reflect.ValueOf(v.val).Elem())
}

func (v *Variant) decodeShape(s *Serializer, r Reader) bool {
	n := v.discWidth(s)
	var buf [8]byte
	if !r.Extract(buf[:n]) {
		return false
	}
	var tag uint64
	if n == 1 {
		tag = uint64(buf[0])
	} else {
		tag = s.Size.Get(buf[:n])
	}
	if tag >= uint64(len(v.protos)) {
		return false
	}
	elemType := reflect.TypeOf(v.protos[tag]).Elem()
	dst := reflect.New(elemType)
	if !s.decodeValue(r, dst.Elem()) {
		return false
	}
	v.tag = int(tag)
	v.val = dst.Interface()
	return true
}
