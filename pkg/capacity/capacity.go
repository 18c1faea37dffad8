package capacity

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/Beastly713/stegano/pkg/framing"
)

// Report describes how much of a carrier a payload occupies.
type Report struct {
	Width         int
	Height        int
	ChannelsUsed  int
	CapacityBits  int
	CapacityBytes int
	BitsUsed      int
	Utilization   float64
}

// Calculate derives the report for a width x height carrier using
// channelsUsed one-bit slots per pixel.
func Calculate(width, height, channelsUsed, bitsUsed int) Report {
	capBits := width * height * channelsUsed
	if capBits < 0 {
		capBits = 0
	}

	var utilization float64
	if capBits > 0 {
		utilization = float64(bitsUsed) / float64(capBits)
	}

	return Report{
		Width:         width,
		Height:        height,
		ChannelsUsed:  channelsUsed,
		CapacityBits:  capBits,
		CapacityBytes: capBits / 8,
		BitsUsed:      bitsUsed,
		Utilization:   utilization,
	}
}

// ForMessage reports on the framed form of message (tag plus end marker)
// against a carrier using one channel per pixel.
func ForMessage(width, height int, message, passphrase string) Report {
	return Calculate(width, height, 1, len(framing.Frame(message, passphrase)))
}

// MaxMessageBytes is the longest untagged message that still fits with its
// end marker.
func MaxMessageBytes(width, height int) int {
	free := width*height - len(framing.EndMarker())
	if free < 0 {
		return 0
	}
	return free / 8
}

// Fits reports whether every framed bit, marker included, has a slot.
func (r Report) Fits() bool {
	return r.BitsUsed <= r.CapacityBits
}

// Overflow is the number of bits that would be dropped by truncation.
func (r Report) Overflow() int {
	if r.Fits() {
		return 0
	}
	return r.BitsUsed - r.CapacityBits
}

func (r Report) String() string {
	return fmt.Sprintf("%dx%d carrier, capacity %s (%d bits), payload %s (%d bits), %.1f%% used",
		r.Width, r.Height,
		humanize.IBytes(uint64(r.CapacityBytes)), r.CapacityBits,
		humanize.IBytes(uint64(r.BitsUsed/8)), r.BitsUsed,
		r.Utilization*100)
}
