// Package framing turns a message and an optional passphrase into the exact
// bit sequence that gets embedded, and parses that sequence back.
//
// Wire format:
//
//	[tagged message bytes, MSB first][1111111111111110]
//
// With a passphrase the tagged message is base64("passphrase:message").
// This is obfuscation, not encryption: anyone can decode it.
package framing

import (
	"encoding/base64"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/Beastly713/stegano/pkg/bitstream"
)

// endMarker terminates the framed message. It is appended exactly once.
var endMarker = bitstream.Parse("1111111111111110")

// EndMarker returns a copy of the terminating bit pattern.
func EndMarker() bitstream.Bits {
	return append(bitstream.Bits(nil), endMarker...)
}

// ErrDecodeFailure indicates the bits before the marker are not valid UTF-8.
// Callers see it as "no hidden data".
var ErrDecodeFailure = errors.New("hidden payload is not valid UTF-8")

// Status classifies the outcome of Unframe.
type Status int

const (
	NotFound Status = iota
	Plain
	Decrypted
	WrongPassphrase
)

func (s Status) String() string {
	switch s {
	case NotFound:
		return "not found"
	case Plain:
		return "plain"
	case Decrypted:
		return "decrypted"
	case WrongPassphrase:
		return "wrong passphrase"
	default:
		return "unknown"
	}
}

// Result is the outcome of Unframe.
type Result struct {
	Status  Status
	Message string

	// Err is set to ErrDecodeFailure when a marker was found but the payload
	// could not be decoded. Status is NotFound in that case.
	Err error
}

// Found reports whether a hidden payload was detected, whether or not the
// passphrase matched.
func (r Result) Found() bool {
	return r.Status != NotFound
}

// Tag applies the passphrase tag. An empty passphrase leaves the message as is.
func Tag(message, passphrase string) string {
	if passphrase == "" {
		return message
	}
	return base64.StdEncoding.EncodeToString([]byte(passphrase + ":" + message))
}

// Frame builds the bit sequence to embed: the tagged message followed by EndMarker.
func Frame(message, passphrase string) bitstream.Bits {
	bits := bitstream.FromString(Tag(message, passphrase))
	return append(bits, endMarker...)
}

// Unframe locates the first EndMarker in bits and decodes everything before it.
func Unframe(bits bitstream.Bits, expectedPassphrase string) Result {
	end := bits.Index(endMarker)
	if end < 0 {
		return Result{Status: NotFound}
	}

	payload := bits[:end].Bytes()
	if !utf8.Valid(payload) {
		return Result{Status: NotFound, Err: ErrDecodeFailure}
	}
	tagged := string(payload)

	if expectedPassphrase == "" {
		return Result{Status: Plain, Message: tagged}
	}

	// Text that is not base64, or base64 without a separator, was never
	// tagged. Hand it back untouched.
	decoded, err := base64.StdEncoding.DecodeString(tagged)
	if err != nil {
		return Result{Status: Plain, Message: tagged}
	}
	prefix, message, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return Result{Status: Plain, Message: tagged}
	}
	if prefix != expectedPassphrase {
		return Result{Status: WrongPassphrase}
	}
	return Result{Status: Decrypted, Message: message}
}
