package sqlfrag

/*
Appends a text repesentation. Sometimes allows better efficiency than
`fmt.Stringer`. Implemented by `Frag`.
*/
type Appender interface {
	Append([]byte) []byte
}

/*
Interface for values that can be rendered into a builder. Implemented by
`Frag` itself, which allows one builder to be spliced into another via
`(*Frag).Frag`.
*/
type Fragmenter interface {
	AppendFrags([]string) []string
}

/*
Tiny shortcut for encoding an `Appender` implementation to a string by using its
`.Append` method, without paying for a string-to-byte conversion.
*/
func AppenderString(val Appender) string {
	if val != nil {
		return bytesToMutableString(val.Append(nil))
	}
	return ``
}
