/*
SQL Fragments: tiny tool for assembling SQL text out of fragments. Oriented
towards callers that build a query piece by piece: append literal text, append
text rendered from a template and values, then join everything into the final
query string.

The package does not parse, validate, escape or execute SQL. What you append is
what you get, in the order you appended it.

# Key Features

• Zero value is ready to use. `Frag.Build` may be called any number of times.

• Formatted appends use the `fmt` verbs, but reject malformed templates,
mismatched argument counts, nil arguments and verb/type mismatches instead of
silently embedding `%!` markers into the query. Only top-level arguments are
checked for nil: nils inside slices, maps or structs render as `<nil>`.

• Fragments are always valid UTF-8.

• A failed append leaves the builder exactly as it was.

• Optional byte budget via `Frag.MaxLen`.

# Examples

See `Frag`, `Frag.Str`, `Frag.Strf`.
*/
package sqlfrag
