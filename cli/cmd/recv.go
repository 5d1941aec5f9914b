package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"

	"github.com/ardnew/ajson/json"
	"github.com/ardnew/ajson/log"
	"github.com/ardnew/ajson/stream"
)

// listen opens the receive socket; tests replace it.
var listen = net.Listen

// Recv accepts a TCP connection and prints each JSON document the peer
// sends, one per line. Malformed documents are logged and skipped.
type Recv struct {
	Listen string `default:"localhost:7070" help:"TCP address to listen on."                           short:"l"`
	Count  int    `default:"0"              help:"Stop after this many documents (0 reads until EOF)." short:"c"`
}

// Run executes the recv command.
func (r *Recv) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ln, err := listen("tcp", r.Listen)
	if err != nil {
		return ErrListen.Wrap(err).With(slog.String("address", r.Listen))
	}

	stopListen := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stopListen()
	defer ln.Close()

	log.InfoContext(ctx, "listening", slog.String("address", ln.Addr().String()))

	conn, err := ln.Accept()
	if err != nil {
		if cause := context.Cause(ctx); cause != nil {
			return cause
		}

		return ErrListen.Wrap(err).With(slog.String("address", r.Listen))
	}

	src := stream.NewConn(conn)

	stopConn := context.AfterFunc(ctx, func() { _ = src.Close() })
	defer stopConn()
	defer src.Close()

	peer := slog.String("peer", src.RemoteAddr().String())
	log.InfoContext(ctx, "connected", peer)

	opts := optionsFrom(ctx)
	dec := json.NewDecoder(src, opts.parse(peer)...)
	enc := json.NewEncoder(stdout, opts.print()...)

	for n := 0; r.Count <= 0 || n < r.Count; {
		v, err := dec.Decode(ctx)

		switch {
		case err == nil:
			if err := enc.Encode(v); err != nil {
				return ErrWrite.Wrap(err)
			}

			n++

		case errors.Is(err, io.EOF):
			log.InfoContext(ctx, "disconnected", peer, slog.Int("documents", n))

			return nil

		case errors.Is(err, json.ErrSyntax):
			log.WarnContext(ctx, "discarding malformed document",
				peer, slog.Any("error", err), slog.Int("flushed", dec.Flush()))

		default:
			if cause := context.Cause(ctx); cause != nil {
				return cause
			}

			return ErrParse.Wrap(err).With(peer)
		}
	}

	return nil
}
