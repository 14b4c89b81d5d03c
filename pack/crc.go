package pack

import "hash/crc32"

// CRC is the caller-supplied checksum collaborator. It must be a pure,
// deterministic function of its input; the packager imposes no
// constraint on the algorithm beyond that, the same contract spec
// section 6 describes for the source's Crc_ template parameter.
type CRC interface {
	// Size is the encoded width in bytes of a checksum value.
	Size() int
	// Calc computes the checksum over data.
	Calc(data []byte) uint64
}

// CRC32IEEE is the packager's shipped default: the IEEE 802.3 polynomial
// via the standard library, the same algorithm the teacher's
// pkg/compactwire frame encoder and ssargent/freyjadb's record codec both
// use.
type CRC32IEEE struct{}

func (CRC32IEEE) Size() int { return 4 }

func (CRC32IEEE) Calc(data []byte) uint64 {
	return uint64(crc32.ChecksumIEEE(data))
}
