package position

import (
	"math"
	"strconv"
	"strings"
)

// Format returns the canonical text of s, which Parse turns back into an equal spec.
//
// A spec without a rotation is written with a ",0" placeholder unless it carries a random
// offset, so "no rotation" and "rotation 0" format the same. A flags-only spec is written as its
// flags alone.
func Format(s Spec) string {
	if s.Position == nil {
		return s.Flags.String()
	}

	var b strings.Builder
	if s.Anchor != nil {
		b.WriteString(s.Anchor.Path())
		b.WriteByte(':')
	}

	for i, v := range s.Position {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(formatFloat(v))
		if s.PositionOffset != nil {
			b.WriteString(formatSigned(s.PositionOffset[i]))
		}
	}

	switch {
	case s.Rotation != nil:
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(*s.Rotation))
	case s.RandomOffset == nil || s.RotationOffset != nil:
		b.WriteString(",0")
	}
	if s.RotationOffset != nil {
		if *s.RotationOffset < 0 {
			b.WriteByte('-')
		} else {
			b.WriteByte('+')
		}
		b.WriteString(strconv.Itoa(abs(*s.RotationOffset)))
	}

	if s.RandomOffset != nil {
		b.WriteByte(',')
		// Always written with a decimal point so that it is never read back as a rotation.
		r := formatFloat(*s.RandomOffset)
		if !strings.Contains(r, ".") {
			r += ".0"
		}
		b.WriteString(r)
	}

	if s.Flags != 0 {
		b.WriteByte(':')
		b.WriteString(s.Flags.String())
	}
	return b.String()
}

// formatFloat ...
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatSigned formats v with an explicit sign, as used for positional offsets.
func formatSigned(v float64) string {
	if math.Signbit(v) {
		return "-" + formatFloat(math.Abs(v))
	}
	return "+" + formatFloat(v)
}

// abs ...
func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
