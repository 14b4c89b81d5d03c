package wire

import "encoding/binary"

// SizeWidth is the byte width used to encode every length-carrying field:
// sequence/map/set element counts, Variant discriminants wider than one
// byte, and the packager's BodySize. It is the single encoding parameter
// peers must agree on out of band, matching the source's Size_t template
// parameter.
type SizeWidth uint8

const (
	Size8 SizeWidth = iota
	Size16
	Size32
	Size64
)

// Bytes returns the encoded width of s, or 0 for an invalid value.
func (s SizeWidth) Bytes() int {
	switch s {
	case Size8:
		return 1
	case Size16:
		return 2
	case Size32:
		return 4
	case Size64:
		return 8
	default:
		return 0
	}
}

// Max returns the largest value representable in s's width.
func (s SizeWidth) Max() uint64 {
	switch s {
	case Size8:
		return 1<<8 - 1
	case Size16:
		return 1<<16 - 1
	case Size32:
		return 1<<32 - 1
	case Size64:
		return ^uint64(0)
	default:
		return 0
	}
}

// Put writes v into buf in s's width, little-endian. buf must have at
// least Bytes() bytes.
func (s SizeWidth) Put(buf []byte, v uint64) {
	switch s {
	case Size8:
		buf[0] = byte(v)
	case Size16:
		binary.LittleEndian.PutUint16(buf, uint16(v))
	case Size32:
		binary.LittleEndian.PutUint32(buf, uint32(v))
	case Size64:
		binary.LittleEndian.PutUint64(buf, v)
	}
}

// Get reads a value of s's width from buf, little-endian.
func (s SizeWidth) Get(buf []byte) uint64 {
	switch s {
	case Size8:
		return uint64(buf[0])
	case Size16:
		return uint64(binary.LittleEndian.Uint16(buf))
	case Size32:
		return uint64(binary.LittleEndian.Uint32(buf))
	case Size64:
		return binary.LittleEndian.Uint64(buf)
	default:
		return 0
	}
}

// putSize writes n to w in the serializer's configured Size width,
// failing if n overflows that width.
func (s *Serializer) putSize(w Writer, n uint64) bool {
	if n > s.Size.Max() {
		return false
	}
	var buf [8]byte
	s.Size.Put(buf[:s.Size.Bytes()], n)
	return w.Insert(buf[:s.Size.Bytes()])
}

// getSize reads a Size-width value from r.
func (s *Serializer) getSize(r Reader) (uint64, bool) {
	n := s.Size.Bytes()
	var buf [8]byte
	if !r.Extract(buf[:n]) {
		return 0, false
	}
	return s.Size.Get(buf[:n]), true
}
