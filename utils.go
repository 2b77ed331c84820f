package sqlfrag

import (
	"errors"
	"fmt"
	r "reflect"
	"unsafe"

	"github.com/mitranim/refut"
)

const maxInt = int(^uint(0) >> 1)

var charsetDigitDec = new(charset).addStr(`0123456789`)

type charset [256]bool

func (self *charset) has(val byte) bool { return self[val] }

func (self *charset) addStr(vals string) *charset {
	for _, val := range vals {
		self[val] = true
	}
	return self
}

/*
Allocation-free conversion. Reinterprets a byte slice as a string. Borrowed from
the standard library. Reasonably safe. Should not be used when the underlying
byte array is volatile.
*/
func bytesToMutableString(bytes []byte) string {
	return *(*string)(unsafe.Pointer(&bytes))
}

func errf(pat string, args ...any) error {
	if len(args) == 0 {
		return errors.New(pat)
	}
	return fmt.Errorf(pat, args...)
}

func try(err error) {
	if err != nil {
		panic(err)
	}
}

/*
Nil slices and maps are excluded: "fmt" renders them as "[]" and "map[]",
which are valid text. Other nils would be rendered as "<nil>" or
"%!verb(<nil>)".
*/
func isNilArg(val any) bool {
	if val == nil {
		return true
	}
	switch r.TypeOf(val).Kind() {
	case r.Ptr, r.Func, r.Chan, r.UnsafePointer:
		return refut.IsNil(val)
	default:
		return false
	}
}

/*
Matches the argument types accepted by "fmt" for "*" width and precision,
within the same magnitude limit as numeric widths.
*/
func starArg(val any) (int64, bool) {
	if val == nil {
		return 0, false
	}
	rval := r.ValueOf(val)
	switch rval.Kind() {
	case r.Int, r.Int8, r.Int16, r.Int32, r.Int64:
		num := rval.Int()
		return num, -fmtNumMax <= num && num <= fmtNumMax
	case r.Uint, r.Uint8, r.Uint16, r.Uint32, r.Uint64, r.Uintptr:
		num := rval.Uint()
		return int64(num), num <= fmtNumMax
	default:
		return 0, false
	}
}

// String-kinded value that "fmt" prints as-is, without calling methods.
func isPlainStringArg(val any) bool {
	return val != nil && r.TypeOf(val).Kind() == r.String && !hasFmtMethods(val)
}

// Same as `isPlainStringArg` for byte slices.
func isPlainBytesArg(val any) bool {
	if val == nil {
		return false
	}
	typ := r.TypeOf(val)
	return typ.Kind() == r.Slice && typ.Elem().Kind() == r.Uint8 && !hasFmtMethods(val)
}

func hasFmtMethods(val any) bool {
	switch val.(type) {
	case fmt.Formatter, fmt.Stringer, error:
		return true
	default:
		return false
	}
}

// Generics when?
func copyStrings(val []string) []string {
	if val == nil {
		return nil
	}
	out := make([]string, len(val))
	copy(out, val)
	return out
}

// Copied from `github.com/mitranim/gax` and tested there.
func growBytes(prev []byte, size int) []byte {
	len, cap := len(prev), cap(prev)
	if cap-len >= size {
		return prev
	}

	next := make([]byte, len, 2*cap+size)
	copy(next, prev)
	return next
}

// Same as `growBytes`. WTB generics.
func growStrings(prev []string, size int) []string {
	len, cap := len(prev), cap(prev)
	if cap-len >= size {
		return prev
	}

	next := make([]string, len, 2*cap+size)
	copy(next, prev)
	return next
}

/*
Used by "go vet" (copylocks) to flag copies of the containing struct after
first use.
*/
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
