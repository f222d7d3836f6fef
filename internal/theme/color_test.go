package theme

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestToRgba(t *testing.T) {
	cases := []struct {
		hex   string
		alpha float64
		want  string
	}{
		{"3B82F6", 0.5, "rgba(59, 130, 246, 0.5)"},
		{"#FFFFFF", 1, "rgba(255, 255, 255, 1)"},
		{"3B", 0.25, "rgba(59, 0, 0, 0.25)"},
		{"", 0.2, "rgba(0, 0, 0, 0.2)"},
		{"zz82F6", 0.1, "rgba(0, 130, 246, 0.1)"},
	}
	for _, tc := range cases {
		if got := ToRgba(tc.hex, tc.alpha); got != tc.want {
			t.Errorf("ToRgba(%q, %v) = %q, want %q", tc.hex, tc.alpha, got, tc.want)
		}
	}
}

func TestAdjust(t *testing.T) {
	cases := []struct {
		hex     string
		percent float64
		want    string
	}{
		{"0F172A", 20, "424A5D"},
		{"#0f172a", 20, "424A5D"},
		{"FFFFFF", 10, "FFFFFF"},
		{"000000", -10, "000000"},
		{"1E293B", -20, "000008"},
		{"zzz", 10, "zzz"},
		{"", 5, ""},
	}
	for _, tc := range cases {
		if got := Adjust(tc.hex, tc.percent); got != tc.want {
			t.Errorf("Adjust(%q, %v) = %q, want %q", tc.hex, tc.percent, got, tc.want)
		}
	}
}

func TestBlend(t *testing.T) {
	if got := Blend("000000", "FFFFFF", 0.5); got != "808080" {
		t.Errorf("half blend = %s", got)
	}
	if got := Blend("000000", "3B82F6", 1); got != "3B82F6" {
		t.Errorf("opaque blend = %s", got)
	}
	if got := Blend("0F172A", "3B82F6", 0); got != "0F172A" {
		t.Errorf("transparent blend = %s", got)
	}
}

func TestAdjustProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("adjust output is valid uppercase hex", prop.ForAll(
		func(hex string, pct int) bool {
			out := Adjust(hex, float64(pct))
			_, ok := parseHex(out)
			return ok && len(out) == 6
		},
		genHex(),
		gen.IntRange(-100, 100),
	))

	properties.Property("adjust by zero is identity", prop.ForAll(
		func(hex string) bool {
			return Adjust(hex, 0) == hex
		},
		genHex(),
	))

	properties.TestingRun(t)
}

func TestHex(t *testing.T) {
	cases := []struct{ in, want string }{
		{"3b82f6", "3B82F6"},
		{"#0F172A", "0F172A"},
		{"FFF", "111111"},
		{`000000"/><script>`, "111111"},
		{"", "111111"},
	}
	for _, tc := range cases {
		if got := Hex(tc.in, "111111"); got != tc.want {
			t.Errorf("Hex(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
