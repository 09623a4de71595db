// Package protocol defines what travels between a tandem client and server.
//
// A session is one websocket connection. The upgrade request carries the
// client's WindowArgs in the HeaderWindowArgs header, msgpack encoded and
// then base64 encoded. After the upgrade the client sends one msgpack
// input.Event per binary message, and the server answers with binary
// messages of raw terminal output. Either side ends the session with a
// close message.
package protocol

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/dshills/tandem/internal/editor"
	"github.com/dshills/tandem/internal/input"
)

// HeaderWindowArgs names the upgrade request header that carries the
// client's WindowArgs.
const HeaderWindowArgs = "X-Tandem-Window-Args"

// Path is the HTTP path sessions are opened on.
const Path = "/"

var (
	// ErrBadHeader is returned when the handshake header is missing or
	// cannot be decoded.
	ErrBadHeader = errors.New("bad window args header")
	// ErrBadMessage is returned when an input message cannot be decoded.
	ErrBadMessage = errors.New("bad input message")
)

// EncodeWindowArgs returns the header value for args.
func EncodeWindowArgs(args editor.WindowArgs) (string, error) {
	b, err := msgpack.Marshal(&args)
	if err != nil {
		return "", fmt.Errorf("encode window args: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// DecodeWindowArgs parses a header value produced by EncodeWindowArgs.
func DecodeWindowArgs(value string) (editor.WindowArgs, error) {
	var args editor.WindowArgs
	if value == "" {
		return args, fmt.Errorf("%w: %s is missing", ErrBadHeader, HeaderWindowArgs)
	}
	b, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return args, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if err := decodeStrict(b, &args); err != nil {
		return args, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if !validSize(args.Width, args.Height) {
		return args, fmt.Errorf("%w: size %dx%d", ErrBadHeader, args.Width, args.Height)
	}
	return args, nil
}

// SetWindowArgs stores args in the handshake header of h.
func SetWindowArgs(h http.Header, args editor.WindowArgs) error {
	value, err := EncodeWindowArgs(args)
	if err != nil {
		return err
	}
	h.Set(HeaderWindowArgs, value)
	return nil
}

// WindowArgsFromRequest decodes the handshake header of an upgrade request.
func WindowArgsFromRequest(r *http.Request) (editor.WindowArgs, error) {
	return DecodeWindowArgs(r.Header.Get(HeaderWindowArgs))
}

// EncodeEvent serializes one input event for a binary message.
func EncodeEvent(ev input.Event) ([]byte, error) {
	b, err := msgpack.Marshal(&ev)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ev, err)
	}
	return b, nil
}

// DecodeEvent parses a binary message produced by EncodeEvent.
func DecodeEvent(b []byte) (input.Event, error) {
	var ev input.Event
	if err := decodeStrict(b, &ev); err != nil {
		return ev, fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	switch ev.Kind {
	case input.KindKey, input.KindScroll:
		return ev, nil
	case input.KindResize:
		if !validSize(ev.Width, ev.Height) {
			return ev, fmt.Errorf("%w: resize to %dx%d", ErrBadMessage, ev.Width, ev.Height)
		}
		return ev, nil
	default:
		return ev, fmt.Errorf("%w: kind %d", ErrBadMessage, ev.Kind)
	}
}

// validSize reports whether a terminal size is one a window can take.
func validSize(width, height int) bool {
	return width >= 0 && height >= 0 && width <= editor.MaxSize && height <= editor.MaxSize
}

func decodeStrict(b []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields(true)
	return dec.Decode(v)
}
