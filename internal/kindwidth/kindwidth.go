// Package kindwidth classifies reflect.Kind values into the codec's
// "trivial" shape (spec section 4.3/4.4) and reports their fixed
// little-endian byte width. It is the direct descendant of fractus's
// isFixedKind/FixedSize helpers, generalized to also recognize
// Go-defined integer kinds (enums) via their underlying Kind.
package kindwidth

import "reflect"

// Trivial reports whether k is encoded as a fixed-width little-endian
// byte image: the sized signed/unsigned integers (8 to 64 bits), floats,
// and bool; the platform-width int, uint and uintptr kinds are not
// trivial. Enum-like
// defined types share the Kind of their underlying integer and are
// therefore trivial too.
func Trivial(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// Width returns the encoded byte width of a trivial kind, or -1 if k is
// not trivial.
func Width(k reflect.Kind) int {
	switch k {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return 1
	case reflect.Int16, reflect.Uint16:
		return 2
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		return 4
	case reflect.Int64, reflect.Uint64, reflect.Float64:
		return 8
	default:
		return -1
	}
}
