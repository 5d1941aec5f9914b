// Package json implements a small JSON value model with a streaming parser
// and printer built for bounded memory.
//
// # Values
//
// A [Value] holds null, a boolean, a 64-bit integer, a 64-bit float, a
// string, an [Array] or an [Object]. A separate invalid sentinel marks the
// absence of a value; it is the zero Value, the result of a failed parse and
// of a lookup that misses.
//
// Numbers keep the distinction found in the text: 42 is an integer and 42.0
// is a float. The accessors are strict, so [Value.AsFloat] on an integer
// fails with [ErrTypeMismatch].
//
// Arrays and objects are shared by reference when a Value is copied. An
// [Object] keeps members in insertion order in a linear slot table: removing
// a member leaves a tombstone that the next new key reuses. Keys longer than
// 63 bytes are truncated.
//
// # Parsing
//
// The parser pulls one byte at a time from a [stream.Source] and needs one
// byte of lookahead. It never builds a partial result: on failure it returns
// the invalid value and a [*SyntaxError] with the position and reason.
//
//	v, err := json.Parse(`{"id": 7, "tags": ["a", "b"]}`)
//
// Use [NewDecoder] to read a sequence of documents from one stream, and
// [WithMaxStringLength] and [WithMaxDepth] to bound the work done on
// untrusted input.
//
// # Printing
//
// The printer writes the compact form through any [io.ByteWriter]. Floats
// are printed with up to a fixed number of fractional digits, five by
// default; magnitudes beyond float64 precision print a single zero digit:
//
//	json.Float(1.5).String()  // "1.50000"
//	json.Float(1e20).String() // "100000000000000000000.0"
//
// [Measure] returns the size of the output without producing it and [Dump]
// prints into a fixed buffer, reporting [ErrTruncated] when it is too small.
//
// # Unsupported
//
// \u escapes are not decoded, numbers are limited to int64 and float64, and
// output is always compact.
package json
