package bitstream

// Bits is an ordered sequence of single-bit values. Each element is 0 or 1.
type Bits []uint8

// FromBytes expands each byte into 8 bits, most significant bit first.
func FromBytes(data []byte) Bits {
	bits := make(Bits, 0, len(data)*8)
	for _, b := range data {
		for bitPos := 7; bitPos >= 0; bitPos-- {
			bits = append(bits, (b>>uint(bitPos))&1)
		}
	}
	return bits
}

// FromString expands the raw bytes of s (UTF-8 for ordinary text).
func FromString(s string) Bits {
	return FromBytes([]byte(s))
}

// Bytes packs the sequence back into bytes, MSB first.
// A trailing group of fewer than 8 bits is dropped, not padded.
func (b Bits) Bytes() []byte {
	out := make([]byte, len(b)/8)
	for i := range out {
		var v byte
		for _, bit := range b[i*8 : i*8+8] {
			v = v<<1 | bit&1
		}
		out[i] = v
	}
	return out
}

// Index returns the position of the first occurrence of pattern in b,
// searched bit by bit (not byte aligned), or -1 if it is absent.
func (b Bits) Index(pattern Bits) int {
	n := len(pattern)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(b); i++ {
		match := true
		for j := 0; j < n; j++ {
			if b[i+j] != pattern[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// Valid reports whether every element is a 0 or a 1.
func (b Bits) Valid() bool {
	for _, bit := range b {
		if bit > 1 {
			return false
		}
	}
	return true
}

// String renders the sequence as a run of '0' and '1' characters.
func (b Bits) String() string {
	buf := make([]byte, len(b))
	for i, bit := range b {
		buf[i] = '0' + bit
	}
	return string(buf)
}

// Parse is the inverse of String. Characters other than '0' and '1' are ignored,
// so grouped forms such as "0110 1000" are accepted.
func Parse(s string) Bits {
	bits := make(Bits, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			bits = append(bits, 0)
		case '1':
			bits = append(bits, 1)
		}
	}
	return bits
}
