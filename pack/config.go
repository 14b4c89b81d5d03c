package pack

import (
	"fmt"

	"github.com/rawbytedev/aglio/wire"
)

// Config is the packager's wire format: which optional frame elements are
// present, and the widths that govern them. It is a runtime value rather
// than a compile-time template parameter (the source's Config<...>); two
// peers must still agree on it out of band, since nothing in the wire
// format itself declares which Config produced it.
type Config struct {
	// UsePackageStart prefixes every frame with a fixed marker value,
	// letting Unpack fast-forward to a plausible frame boundary during
	// resynchronisation instead of only advancing one byte at a time.
	UsePackageStart   bool
	PackageStart      uint64
	PackageStartWidth wire.SizeWidth

	// UseCrc appends a checksum computed by Crc after the body. It covers
	// the body alone when UseHeaderCrc is set, and the header plus the body
	// otherwise.
	UseCrc bool
	Crc    CRC

	// UseHeaderCrc additionally inserts a checksum over the header
	// (PackageStart + BodySize) between the header and the body. It is
	// only meaningful, and only allowed, when UseCrc is also set.
	UseHeaderCrc bool

	// Size is the width of the BodySize length prefix, and also the
	// width used for every length-carrying field the body's own shape
	// codec encodes (sequence/map/set counts, wide Variant
	// discriminants).
	Size wire.SizeWidth

	// MaxSize bounds BodySize; zero means unbounded. A frame whose
	// declared BodySize exceeds MaxSize is treated as corruption, never
	// as a valid oversized frame.
	MaxSize uint64
}

// Validate checks the structural invariants spec section 3 requires of a
// Config: UseHeaderCrc implies UseCrc, and a checksum cannot be requested
// without a CRC implementation.
func (c Config) Validate() error {
	if c.UseHeaderCrc && !c.UseCrc {
		return fmt.Errorf("pack: UseHeaderCrc requires UseCrc")
	}
	if c.UseCrc && c.Crc == nil {
		return fmt.Errorf("pack: UseCrc requires a non-nil Crc")
	}
	if c.Size.Bytes() == 0 {
		return fmt.Errorf("pack: invalid Size width")
	}
	if c.UsePackageStart && c.PackageStartWidth.Bytes() == 0 {
		return fmt.Errorf("pack: invalid PackageStartWidth")
	}
	return nil
}

// headerLen is the number of header bytes preceding the body: optional
// PackageStart, BodySize, optional HeaderCRC.
func (c Config) headerLen() int {
	n := c.Size.Bytes()
	if c.UsePackageStart {
		n += c.PackageStartWidth.Bytes()
	}
	if c.UseHeaderCrc {
		n += c.Crc.Size()
	}
	return n
}
