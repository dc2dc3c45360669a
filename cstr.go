package rawcstr

import (
	"unicode/utf8"
	"unsafe"
)

// CStringer is the capability to produce a null-terminated string pointer
// for a foreign call.
//
// Implementations either route through the given Cache, which then owns the
// resulting buffer until its Close, or return an address they already hold
// for the whole process lifetime, in which case the Cache is not touched.
type CStringer interface {
	RawCStr(cache *Cache) (unsafe.Pointer, error)
}

var (
	_ CStringer = String("")
	_ CStringer = Bytes(nil)
	_ CStringer = Terminated(nil)
	_ CStringer = Static(nil)
	_ CStringer = Ptr(0)
)

// String is transient text converted through the cache.
type String string

// RawCStr validates the text as UTF-8 and interns it, so the returned
// pointer outlives the String value itself.
func (s String) RawCStr(cache *Cache) (unsafe.Pointer, error) {
	if i := invalidUTF8At(string(s)); i >= 0 {
		return nil, &InvalidUTF8Error{Pos: i}
	}
	return cache.GetOrCreate(string(s))
}

// Bytes is transient byte text converted through the cache.
type Bytes []byte

func (b Bytes) RawCStr(cache *Cache) (unsafe.Pointer, error) {
	if i := invalidUTF8At(string(b)); i >= 0 {
		return nil, &InvalidUTF8Error{Pos: i}
	}
	return cache.GetOrCreate(string(b))
}

// Terminated is an already null-terminated buffer whose lifetime is not
// guaranteed beyond the call, for example one built up for a previous
// foreign call and about to be discarded.
type Terminated []byte

// RawCStr strips the terminator and re-interns the content, copying it into
// a buffer the cache owns. The original buffer may be freed or reused
// afterwards.
func (t Terminated) RawCStr(cache *Cache) (unsafe.Pointer, error) {
	if len(t) == 0 || t[len(t)-1] != 0 {
		return nil, &NotTerminatedError{Len: len(t)}
	}
	s := string(t[:len(t)-1])
	if i := invalidUTF8At(s); i >= 0 {
		return nil, &InvalidUTF8Error{Pos: i}
	}
	return cache.GetOrCreate(s)
}

// Static is a null-terminated buffer that lives for the whole process, such
// as a package-level variable. The caller vouches for that lifetime and for
// the buffer never being mutated.
type Static []byte

// RawCStr returns the buffer's own address after checking it is non-empty
// and ends with a null byte. No copy is made and the cache is not touched.
//
// Unlike the cached variants, Static does not inspect the interior bytes:
// a trusted static buffer containing null bytes before the terminator is
// accepted as-is, and foreign code will see only the content up to the
// first null.
func (s Static) RawCStr(cache *Cache) (unsafe.Pointer, error) {
	if len(s) == 0 || s[len(s)-1] != 0 {
		return nil, &NotTerminatedError{Len: len(s)}
	}
	return unsafe.Pointer(&s[0]), nil
}

// Ptr is an already-produced foreign string pointer, passed through
// unchanged.
type Ptr uintptr

func (p Ptr) RawCStr(cache *Cache) (unsafe.Pointer, error) {
	return *(*unsafe.Pointer)(unsafe.Pointer(&p)), nil
}

// GoString reads a null-terminated buffer back into a Go string. The bytes
// are copied; the returned string never shares memory with, or takes
// ownership of, the buffer behind p.
func GoString(p unsafe.Pointer) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(p), n))
}

// invalidUTF8At returns the offset of the first invalid byte, or -1 when s
// is valid UTF-8.
func invalidUTF8At(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
