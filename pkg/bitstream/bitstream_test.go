package bitstream

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBytesMSBFirst(t *testing.T) {
	// 'h' = 0x68 = 0110 1000, 'i' = 0x69 = 0110 1001
	got := FromString("hi")
	assert.Equal(t, "0110100001101001", got.String())
	assert.Len(t, got, 16)
}

func TestBytesDropsPartialGroup(t *testing.T) {
	bits := Parse("01101000 011")
	assert.Equal(t, []byte("h"), bits.Bytes())

	assert.Empty(t, Parse("1111111").Bytes())
	assert.Empty(t, Bits(nil).Bytes())
}

func TestRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		{0x00},
		{0xFF},
		[]byte("Hello World!"),
		[]byte("héllo, 世界"),
	}

	random := make([]byte, 4096)
	_, err := rand.Read(random)
	require.NoError(t, err)
	cases = append(cases, random)

	for _, data := range cases {
		restored := FromBytes(data).Bytes()
		if !bytes.Equal(data, restored) && !(len(data) == 0 && len(restored) == 0) {
			t.Errorf("round trip mismatch.\nExpected: %v\nGot: %v", data, restored)
		}
	}
}

func TestIndex(t *testing.T) {
	marker := Parse("1111111111111110")

	tests := []struct {
		name string
		bits Bits
		want int
	}{
		{"empty", nil, -1},
		{"shorter than pattern", Parse("111111"), -1},
		{"at start", Parse("1111111111111110 0101"), 0},
		{"byte aligned", Parse("01101000 1111111111111110"), 8},
		{"unaligned", Parse("011 1111111111111110 00"), 3},
		{"all ones", Parse("11111111111111111111"), -1},
		{"first of two", Parse("0 1111111111111110 1111111111111110"), 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.bits.Index(marker))
		})
	}

	assert.Equal(t, 0, Parse("101").Index(nil))
}

func TestValid(t *testing.T) {
	assert.True(t, Parse("0101").Valid())
	assert.True(t, Bits(nil).Valid())
	assert.False(t, Bits{0, 1, 2}.Valid())
}
