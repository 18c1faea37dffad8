package framing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Beastly713/stegano/pkg/bitstream"
)

func TestFrameLayout(t *testing.T) {
	bits := Frame("hi", "")

	require.Len(t, bits, 32)
	assert.Equal(t, "0110100001101001"+"1111111111111110", bits.String())
}

func TestEndMarkerIsACopy(t *testing.T) {
	m := EndMarker()
	require.Equal(t, "1111111111111110", m.String())

	m[15] = 1
	assert.Equal(t, "1111111111111110", EndMarker().String())

	res := Unframe(Frame("still here", ""), "")
	assert.Equal(t, Plain, res.Status)
	assert.Equal(t, "still here", res.Message)
}

func TestTag(t *testing.T) {
	assert.Equal(t, "hello", Tag("hello", ""))
	// base64("secret:hello")
	assert.Equal(t, "c2VjcmV0OmhlbGxv", Tag("hello", "secret"))
}

func TestUnframePlain(t *testing.T) {
	res := Unframe(Frame("hello world", ""), "")
	assert.Equal(t, Plain, res.Status)
	assert.Equal(t, "hello world", res.Message)
	assert.True(t, res.Found())
}

func TestUnframeIgnoresTrailingBits(t *testing.T) {
	bits := append(Frame("hi", ""), bitstream.Parse("0101110001")...)
	res := Unframe(bits, "")
	assert.Equal(t, Plain, res.Status)
	assert.Equal(t, "hi", res.Message)
}

func TestUnframePassphrase(t *testing.T) {
	bits := Frame("meet at dawn", "secret")

	res := Unframe(bits, "secret")
	assert.Equal(t, Decrypted, res.Status)
	assert.Equal(t, "meet at dawn", res.Message)

	res = Unframe(bits, "guess")
	assert.Equal(t, WrongPassphrase, res.Status)
	assert.Empty(t, res.Message)
	assert.True(t, res.Found())

	// Without a passphrase the tag is returned verbatim.
	res = Unframe(bits, "")
	assert.Equal(t, Plain, res.Status)
	assert.Equal(t, Tag("meet at dawn", "secret"), res.Message)
}

func TestUnframeMessageWithColons(t *testing.T) {
	res := Unframe(Frame("a:b:c", "key"), "key")
	assert.Equal(t, Decrypted, res.Status)
	assert.Equal(t, "a:b:c", res.Message)
}

func TestUnframePassphraseWithColonSplitsOnFirst(t *testing.T) {
	// The prefix is cut at the first ':' so "a:b" never matches itself.
	res := Unframe(Frame("msg", "a:b"), "a:b")
	assert.Equal(t, WrongPassphrase, res.Status)
}

func TestUnframeUntaggedWithPassphrase(t *testing.T) {
	// Not valid base64: falls back to the literal text.
	res := Unframe(Frame("time: 10:30", ""), "secret")
	assert.Equal(t, Plain, res.Status)
	assert.Equal(t, "time: 10:30", res.Message)

	// Valid base64 but no separator once decoded.
	res = Unframe(Frame("aGVsbG8=", ""), "secret")
	assert.Equal(t, Plain, res.Status)
	assert.Equal(t, "aGVsbG8=", res.Message)
}

func TestUnframeNotFound(t *testing.T) {
	tests := map[string]bitstream.Bits{
		"empty":          nil,
		"no marker":      bitstream.FromString("no marker in here"),
		"truncated mark": bitstream.Parse("01101000 111111111111111"),
	}
	for name, bits := range tests {
		t.Run(name, func(t *testing.T) {
			res := Unframe(bits, "")
			assert.Equal(t, NotFound, res.Status)
			assert.False(t, res.Found())
			assert.NoError(t, res.Err)
		})
	}
}

func TestUnframeDecodeFailure(t *testing.T) {
	// 0xC3 starts a two byte sequence that never completes.
	bits := append(bitstream.FromBytes([]byte{0xC3, 0x28}), EndMarker()...)
	res := Unframe(bits, "")
	assert.Equal(t, NotFound, res.Status)
	assert.True(t, errors.Is(res.Err, ErrDecodeFailure))
}

func TestUnframeEmptyMessage(t *testing.T) {
	res := Unframe(Frame("", ""), "")
	assert.Equal(t, Plain, res.Status)
	assert.Empty(t, res.Message)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "not found", NotFound.String())
	assert.Equal(t, "wrong passphrase", WrongPassphrase.String())
	assert.Equal(t, "unknown", Status(42).String())
}

func FuzzUnframe(f *testing.F) {
	f.Add([]byte("hello"), "")
	f.Add([]byte("hello"), "secret")
	f.Add([]byte{0xFF, 0xFE, 0x00}, "x")

	f.Fuzz(func(t *testing.T, data []byte, passphrase string) {
		// Arbitrary bit soup must never panic.
		_ = Unframe(bitstream.FromBytes(data), passphrase)
	})
}
