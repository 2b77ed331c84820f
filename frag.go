package sqlfrag

import (
	"slices"
	"strings"
	"unicode/utf8"
)

/*
Prealloc tool. Makes a `Frag` with the specified capacity of the fragment
buffer.
*/
func MakeFrag(fragCap int) *Frag {
	out := &Frag{frags: make([]string, 0, fragCap)}
	out.owner = out
	return out
}

// Allocates an empty `Frag`. Equivalent to `new(Frag)`; the zero value is
// ready to use.
func NewFrag() *Frag { return new(Frag) }

/*
Short for "fragments". Accumulates SQL text fragments in insertion order and
joins them into the final query via `.Build`. The zero value is an empty
builder, ready to use.

Appends either succeed completely or leave the builder untouched, so a failed
`.Strf` never corrupts the query built so far.

Must not be copied after first use; pass `*Frag` around. An accidental copy
never shares storage with the original: the first append to the copy moves it
to its own buffer.

Not safe for concurrent use. Callers sharing a `Frag` between goroutines must
guard appends and builds with their own mutex.
*/
type Frag struct {
	_ noCopy

	// Optional limit on the total byte length of all fragments. Zero means no
	// limit. Appends that would exceed it fail with `ErrAllocation`.
	MaxLen int

	frags []string
	size  int
	owner *Frag
}

// Number of fragments, including empty ones.
func (self *Frag) Len() int { return len(self.frags) }

// Total byte length of all fragments, which is also the length of `.Build`.
func (self *Frag) Size() int { return self.size }

// Returns a copy of the fragments. Mutating the result doesn't affect the
// builder.
func (self *Frag) Frags() []string { return copyStrings(self.frags) }

// Implement `Fragmenter`, appending a copy of our fragments.
func (self *Frag) AppendFrags(buf []string) []string {
	return append(buf, self.frags...)
}

// Increases the capacity (not length) of the fragment buffer by the specified
// amount. If there's already enough capacity, avoids allocation.
func (self *Frag) Grow(size int) {
	self.own()
	self.frags = growStrings(self.frags, size)
}

/*
Appends the provided string verbatim as the next fragment. Empty input is a
valid fragment: it increments `.Len` and contributes nothing to `.Build`.
Fails with `ErrInvalidInput` if the input is not valid UTF-8, and with
`ErrAllocation` if the byte budget would be exceeded. On failure, nothing is
appended.
*/
func (self *Frag) Str(val string) error {
	const while = `appending literal fragment`

	if !utf8.ValidString(val) {
		return ErrInvalidInput.while(while).becausef(`fragment is not valid UTF-8: %q`, val)
	}

	err := self.reserve(len(val), while)
	if err != nil {
		return err
	}
	self.push(val)
	return nil
}

/*
Renders the template with the arguments, using the verbs of the "fmt" package,
and appends the result as a single fragment. For example:

	var frag Frag
	frag.Strf(`limit %d offset %d`, 10, 20)
	frag.Build() // "limit 10 offset 20"

Unlike `fmt.Sprintf`, this never embeds error markers such as "%!d(string=x)"
into the output. Instead, fails with `ErrFormat` when:

  - The template has a trailing "%" without a verb.
  - The template uses an unknown verb or explicit argument indexes.
  - The argument count doesn't match the directives.
  - A "*" argument is not an integer, or a "*" precision is negative.
  - An argument is nil, including typed nil pointers. Nils nested inside
    slices, maps or structs are rendered by "fmt" as "<nil>".
  - A verb is incompatible with its argument.
  - Rendering an argument panics.
  - The rendered text is not valid UTF-8.

Fails with `ErrAllocation` if the result would exceed the byte budget. On any
failure, the builder remains unchanged.
*/
func (self *Frag) Strf(src string, args ...any) error {
	const while = `appending formatted fragment`

	val, err := render(src, args, while)
	if err != nil {
		return err
	}
	if !utf8.ValidString(val) {
		return ErrFormat.while(while).becausef(`rendered fragment is not valid UTF-8: %q`, val)
	}

	err = self.reserve(len(val), while)
	if err != nil {
		return err
	}
	self.push(val)
	return nil
}

/*
Appends every fragment of the input, preserving their boundaries. Nil input is
a nop. The input is appended entirely or not at all.
*/
func (self *Frag) Frag(val Fragmenter) error {
	const while = `appending fragments`

	if val == nil {
		return nil
	}

	vals := val.AppendFrags(nil)
	size := 0
	for ind, val := range vals {
		if !utf8.ValidString(val) {
			return ErrInvalidInput.while(while).becausef(`fragment %d is not valid UTF-8: %q`, ind, val)
		}
		if len(val) > maxInt-size {
			return ErrAllocation.while(while)
		}
		size += len(val)
	}

	err := self.reserve(size, while)
	if err != nil {
		return err
	}

	self.own()
	self.frags = append(self.frags, vals...)
	self.size += size
	return nil
}

// Variant of `(*Frag).Str` that panics on error.
func (self *Frag) TryStr(val string) { try(self.Str(val)) }

// Variant of `(*Frag).Strf` that panics on error.
func (self *Frag) TryStrf(src string, args ...any) { try(self.Strf(src, args...)) }

/*
Concatenates all fragments in insertion order, without separators. Returns ""
for an empty builder. Doesn't modify the builder: calling this repeatedly
without intervening appends returns identical strings.
*/
func (self *Frag) Build() string {
	switch len(self.frags) {
	case 0:
		return ``
	case 1:
		return self.frags[0]
	}

	var buf strings.Builder
	buf.Grow(self.size)
	for _, val := range self.frags {
		buf.WriteString(val)
	}
	return buf.String()
}

// Implement `fmt.Stringer`. Same as `.Build`.
func (self *Frag) String() string { return self.Build() }

// Implement `Appender`, appending the joined fragments to the buffer.
func (self *Frag) Append(buf []byte) []byte {
	buf = growBytes(buf, self.size)
	for _, val := range self.frags {
		buf = append(buf, val...)
	}
	return buf
}

/*
Releases the fragments and resets the builder to the zero state, keeping
`.MaxLen`. Idempotent, and nil-safe. The builder may be reused afterwards.
*/
func (self *Frag) Dispose() {
	if self == nil {
		return
	}
	self.frags = nil
	self.size = 0
	self.owner = self
}

func (self *Frag) reserve(size int, while string) error {
	if size > maxInt-self.size {
		return ErrAllocation.while(while).becausef(
			`total length overflows: %d + %d`, self.size, size,
		)
	}
	if self.MaxLen > 0 && self.size+size > self.MaxLen {
		return ErrAllocation.while(while).becausef(
			`total length %d would exceed limit %d`, self.size+size, self.MaxLen,
		)
	}
	return nil
}

func (self *Frag) push(val string) {
	self.own()
	self.frags = append(self.frags, val)
	self.size += len(val)
}

/*
Detects a by-value copy: the copy still points at the original's buffer, and
appending into the spare capacity would overwrite the original's later
fragments. Clipping forces the next append to reallocate.
*/
func (self *Frag) own() {
	if self.owner != self {
		self.frags = slices.Clip(self.frags)
		self.owner = self
	}
}
