// Package pack frames encoded payloads for byte-oriented channels: an
// optional start marker, a length-prefixed body, and optional header and
// body checksums, with byte-granular resynchronisation after corruption.
//
// Pack and Unpack are synchronous and operate on caller-owned buffers;
// Unpack never blocks waiting for more data — it reports NeedMore and
// leaves it to the caller to supply a longer buffer on the next call.
package pack

import (
	"fmt"

	"github.com/rawbytedev/aglio/wire"
	"github.com/rawbytedev/aglio/wirebuf"
)

// UnpackResult is the outcome of one Unpack call: either a delivered frame
// which, together with any junk discarded ahead of it, consumed N leading
// bytes of the input buffer, or the sentinel NeedMore, meaning the buffer
// does not yet hold a complete valid frame.
type UnpackResult struct {
	n        int
	needMore bool
}

// NeedMore is the distinguished "not enough bytes yet" outcome. N is
// meaningless for this value; the caller must not
// discard any of its buffer and should call Unpack again once more bytes
// have arrived.
var NeedMore = UnpackResult{needMore: true}

// Consumed reports that exactly n leading bytes of the buffer were
// consumed by this call: a delivered frame plus any resynchronisation junk
// discarded ahead of it.
func Consumed(n int) UnpackResult { return UnpackResult{n: n} }

// N is the number of leading bytes consumed. It is only meaningful when
// NeedMore() is false.
func (u UnpackResult) N() int { return u.n }

// IsNeedMore reports whether this result is the NeedMore sentinel.
func (u UnpackResult) IsNeedMore() bool { return u.needMore }

// Packager packs and unpacks frames according to Cfg.
type Packager struct {
	Cfg Config
}

func (p Packager) wireSerializer() wire.Serializer {
	return wire.Serializer{Size: p.Cfg.Size}
}

// Pack serializes v and appends a complete frame to buf, returning the
// extended buffer. It reserves the header region up front, encodes the
// body through a wirebuf.Nested child view of the same growable buffer,
// then patches the now-known body size (and, if configured, the header
// checksum) back into the reserved region in place — the nested buffer
// adapter spec section 4.2 describes.
func (p Packager) Pack(buf []byte, v any) ([]byte, error) {
	cfg := p.Cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	out := wirebuf.NewDynamicWriter(buf)
	headerStart := out.Len()

	if cfg.UsePackageStart {
		w := cfg.PackageStartWidth.Bytes()
		var tmp [8]byte
		cfg.PackageStartWidth.Put(tmp[:w], cfg.PackageStart)
		if !out.Insert(tmp[:w]) {
			return nil, fmt.Errorf("pack: failed to write package start")
		}
	}

	sizeOffset := out.Len()
	sizeW := cfg.Size.Bytes()
	if !out.Insert(make([]byte, sizeW)) {
		return nil, fmt.Errorf("pack: failed to reserve body size field")
	}

	headerCrcOffset := -1
	if cfg.UseHeaderCrc {
		headerCrcOffset = out.Len()
		if !out.Insert(make([]byte, cfg.Crc.Size())) {
			return nil, fmt.Errorf("pack: failed to reserve header crc field")
		}
	}

	child := wirebuf.NewNested(out)
	if !p.wireSerializer().Serialize(child, v) {
		return nil, fmt.Errorf("pack: failed to encode body")
	}
	bodyLen := child.Len()

	// BodySize counts every byte that follows the header, including the
	// trailing BodyCRC when one is present, not just the payload itself.
	declaredSize := uint64(bodyLen)
	if cfg.UseCrc {
		declaredSize += uint64(cfg.Crc.Size())
	}

	if cfg.MaxSize > 0 && declaredSize > cfg.MaxSize {
		return nil, fmt.Errorf("pack: body size %d exceeds MaxSize %d", declaredSize, cfg.MaxSize)
	}

	cfg.Size.Put(out.Bytes()[sizeOffset:sizeOffset+sizeW], declaredSize)

	if cfg.UseHeaderCrc {
		header := out.Bytes()[headerStart:headerCrcOffset]
		crcVal := cfg.Crc.Calc(header)
		crcBuf := make([]byte, cfg.Crc.Size())
		putLE(crcBuf, crcVal)
		copy(out.Bytes()[headerCrcOffset:headerCrcOffset+cfg.Crc.Size()], crcBuf)
	}

	if cfg.UseCrc {
		// With a header CRC already authenticating everything before the
		// body, BodyCRC covers the body alone. Without one, BodyCRC is the
		// only checksum in the frame, so it covers the header too.
		var coveredEnd = child.Start() + bodyLen
		var coveredStart = child.Start()
		if !cfg.UseHeaderCrc {
			coveredStart = headerStart
		}
		covered := out.Bytes()[coveredStart:coveredEnd]
		crcVal := cfg.Crc.Calc(covered)
		crcBuf := make([]byte, cfg.Crc.Size())
		putLE(crcBuf, crcVal)
		if !out.Insert(crcBuf) {
			return nil, fmt.Errorf("pack: failed to write body crc")
		}
	}

	return out.Bytes(), nil
}

// Unpack scans buf from its first byte for one complete, valid frame,
// discarding leading bytes that cannot be part of a valid frame as it
// goes (resynchronisation). If the data resolved so far runs out before a
// full frame is confirmed, the whole call reports NeedMore: the caller
// must not discard anything and should call again once more bytes have
// arrived, re-scanning from byte zero. On success, out receives the
// decoded body and the result reports the total number of bytes —
// including any discarded junk — the caller should advance past before
// its next call.
func (p Packager) Unpack(buf []byte, out any) (UnpackResult, error) {
	cfg := p.Cfg
	if err := cfg.Validate(); err != nil {
		return UnpackResult{}, err
	}

	pos := 0
	for {
		remaining := buf[pos:]
		hdrLen := cfg.headerLen()
		if len(remaining) < hdrLen {
			return NeedMore, nil
		}

		off := 0
		if cfg.UsePackageStart {
			w := cfg.PackageStartWidth.Bytes()
			got := cfg.PackageStartWidth.Get(remaining[off : off+w])
			off += w
			if got != cfg.PackageStart {
				if advanced := fastForwardToMarker(remaining[1:], cfg); advanced >= 0 {
					pos += 1 + advanced
				} else {
					pos += len(remaining)
				}
				continue
			}
		}

		sizeW := cfg.Size.Bytes()
		bodySize := cfg.Size.Get(remaining[off : off+sizeW])
		off += sizeW

		if cfg.MaxSize > 0 && bodySize > cfg.MaxSize {
			pos++
			continue
		}

		var headerCRCOK = true
		if cfg.UseHeaderCrc {
			crcW := cfg.Crc.Size()
			wantCRC := getLE(remaining[off : off+crcW])
			gotCRC := cfg.Crc.Calc(remaining[:off])
			off += crcW
			headerCRCOK = wantCRC == gotCRC
		}
		if !headerCRCOK {
			pos++
			continue
		}

		// bodySize already counts the trailing BodyCRC when one is
		// configured, matching what Pack declares.
		bodyOnlyLen := int(bodySize)
		if cfg.UseCrc {
			bodyOnlyLen -= cfg.Crc.Size()
			if bodyOnlyLen < 0 {
				pos++
				continue
			}
		}

		if bodySize > uint64(len(remaining)-off) {
			return NeedMore, nil
		}
		frameLen := off + int(bodySize)

		body := remaining[off : off+bodyOnlyLen]
		if cfg.UseCrc {
			crcW := cfg.Crc.Size()
			wantCRC := getLE(remaining[off+bodyOnlyLen : off+bodyOnlyLen+crcW])
			// Mirrors Pack: body-only coverage when a header CRC already
			// authenticates everything before the body, header+body
			// coverage when BodyCRC is the frame's only checksum.
			var covered []byte
			if cfg.UseHeaderCrc {
				covered = body
			} else {
				covered = remaining[:off+bodyOnlyLen]
			}
			gotCRC := cfg.Crc.Calc(covered)
			if wantCRC != gotCRC {
				pos++
				continue
			}
		}

		r := wirebuf.NewDynamicReader(body)
		if !p.wireSerializer().Deserialize(r, out) {
			pos++
			continue
		}

		return Consumed(pos + frameLen), nil
	}
}

// fastForwardToMarker searches for the next occurrence of the configured
// PackageStart pattern within data, returning its offset or -1 if absent.
// This is the "fast-forward" half of the resync strategy: rather than
// retrying the marker check at every single byte, a failed match jumps
// straight to the next place the marker's own bytes could start.
func fastForwardToMarker(data []byte, cfg Config) int {
	w := cfg.PackageStartWidth.Bytes()
	var pattern [8]byte
	cfg.PackageStartWidth.Put(pattern[:w], cfg.PackageStart)
	for i := 0; i+w <= len(data); i++ {
		match := true
		for j := 0; j < w; j++ {
			if data[i+j] != pattern[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func putLE(buf []byte, v uint64) {
	for i := range buf {
		buf[i] = byte(v >> (8 * i))
	}
}

func getLE(buf []byte) uint64 {
	var v uint64
	for i, b := range buf {
		v |= uint64(b) << (8 * i)
	}
	return v
}
