package format_test

import (
	"bytes"
	"testing"

	"github.com/Beastly713/stegano/pkg/format"
	"github.com/Beastly713/stegano/pkg/raster"
)

// FuzzNewReader feeds random byte streams into the decoder.
// Garbage must fail with an error, never a panic.
func FuzzNewReader(f *testing.F) {
	// A minimal valid PNG helps the fuzzer start from real structure.
	var valid bytes.Buffer
	if err := format.NewWriter(&valid).Write(raster.Noise(3, 3, 1), format.PNG); err != nil {
		f.Fatalf("seed encode: %v", err)
	}
	f.Add(valid.Bytes())

	f.Add([]byte("random garbage"))
	f.Add([]byte("\x89PNG\r\n\x1a\n"))
	f.Add([]byte("BM"))
	f.Add([]byte("II*\x00"))

	f.Fuzz(func(t *testing.T, data []byte) {
		reader, err := format.NewReader(bytes.NewReader(data))
		if err != nil {
			return
		}
		if err := reader.Image.Validate(); err != nil {
			t.Fatalf("decoded raster is inconsistent: %v", err)
		}
	})
}
