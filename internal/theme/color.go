package theme

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToRgba formats a hex color as a CSS rgba() string. Channels that cannot be
// read from a short or malformed input are reported as 0.
func ToRgba(hex string, alpha float64) string {
	hex = stripMarker(hex)
	return fmt.Sprintf("rgba(%d, %d, %d, %s)",
		channel(hex, 0), channel(hex, 1), channel(hex, 2),
		strconv.FormatFloat(alpha, 'f', -1, 64))
}

// Adjust lightens (positive percent) or darkens (negative percent) each channel
// by round(2.55*percent). The result is 6-digit uppercase hex. Unparsable input
// is returned unchanged.
func Adjust(hex string, percent float64) string {
	c, ok := parseHex(stripMarker(hex))
	if !ok {
		return hex
	}
	amt := int(math.Floor(2.55*percent + 0.5))
	r, g, b := c.RGB255()
	return fmt.Sprintf("%02X%02X%02X",
		clamp(int(r)+amt), clamp(int(g)+amt), clamp(int(b)+amt))
}

// Blend composites over onto base at the given opacity and returns the opaque
// result. Used where the output format has no alpha channel.
func Blend(base, over string, opacity float64) string {
	top, ok := parseHex(stripMarker(over))
	if !ok {
		return over
	}
	if opacity >= 1 {
		return strings.ToUpper(stripMarker(over))
	}
	bottom, ok := parseHex(stripMarker(base))
	if !ok {
		return strings.ToUpper(stripMarker(over))
	}
	if opacity < 0 {
		opacity = 0
	}
	return strings.ToUpper(bottom.BlendRgb(top, opacity).Clamped().Hex()[1:])
}

func channel(hex string, i int) int {
	start := i * 2
	if start+2 > len(hex) {
		return 0
	}
	v, err := strconv.ParseUint(hex[start:start+2], 16, 8)
	if err != nil {
		return 0
	}
	return int(v)
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Hex returns hex as 6-digit uppercase without a marker, or fallback when hex
// does not parse. Consumers that write colors into markup use it.
func Hex(hex, fallback string) string {
	hex = stripMarker(hex)
	if _, ok := parseHex(hex); !ok {
		return fallback
	}
	return strings.ToUpper(hex)
}
