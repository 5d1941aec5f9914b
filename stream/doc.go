// Package stream provides the byte sources and sinks used by the JSON parser
// and printer.
//
// A [Source] yields one byte at a time with a single byte of pushback, and
// can report without blocking whether more input is waiting. [Buffer] reads
// memory, [Reader] reads any [io.Reader] with a read-ahead goroutine and a
// per-byte timeout, and [Conn] reads a network connection that ends the
// stream when the peer goes away.
//
// A [Sink] accepts one byte at a time and may refuse further output.
// [Counter] measures output without storing it and [Fixed] fills a slice of
// fixed capacity.
package stream
