package position

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-gl/mathgl/mgl64"
)

// Parser parses position strings, resolving anchors through an AnchorResolver.
type Parser struct {
	log     *slog.Logger
	anchors AnchorResolver
}

// NewParser ...
func NewParser(log *slog.Logger, anchors AnchorResolver) *Parser {
	return &Parser{log: log, anchors: anchors}
}

// Parse parses s without logging. See (*Parser).Parse.
func Parse(s string, anchors AnchorResolver) (Spec, error) {
	return NewParser(slog.New(slog.DiscardHandler), anchors).Parse(s)
}

// Parse parses a position string. Text that does not match the full grammar but ends in a run
// of uppercase letters is parsed as a flags-only spec, which has no position. Every error
// returned is a *ParseError.
func (p *Parser) Parse(s string) (Spec, error) {
	text := strings.TrimSpace(s)
	if text == "" {
		return Spec{}, &ParseError{Input: s, Err: ErrInvalidFormat}
	}

	if l, ok := layoutOf(Tokenize(text)); ok {
		spec, err := p.build(text, l)
		if err != nil {
			return Spec{}, err
		}
		p.log.Debug("parsed item position", "text", text, "position", spec)
		return spec, nil
	}

	run, ok := trailingFlags(text)
	if !ok {
		return Spec{}, &ParseError{Input: s, Err: ErrInvalidFormat}
	}
	flags, err := ParseFlags(run)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Input = s
		}
		return Spec{}, err
	}
	p.log.Debug("parsed flags-only item position", "text", text, "flags", flags)
	return Spec{Flags: flags}, nil
}

// layout is the structure of a position string before any value is converted.
type layout struct {
	anchor *Token
	values [][]Token
	flags  *Token
}

// layoutOf splits tokens into colon separated sections of comma separated atoms and matches
// them against [anchor:]values[:flags].
func layoutOf(tokens []Token) (layout, bool) {
	var l layout
	secs := sections(tokens)
	switch len(secs) {
	case 1:
		l.values = secs[0]
	case 2:
		switch {
		case anchorSection(secs[0]) && len(secs[1]) >= 3:
			l.anchor, l.values = &secs[0][0][0], secs[1]
		case flagSection(secs[1]):
			l.values, l.flags = secs[0], &secs[1][0][0]
		default:
			return l, false
		}
	case 3:
		if !anchorSection(secs[0]) || !flagSection(secs[2]) {
			return l, false
		}
		l.anchor, l.values, l.flags = &secs[0][0][0], secs[1], &secs[2][0][0]
	default:
		return l, false
	}
	return l, len(l.values) >= 3 && len(l.values) <= 5
}

// sections ...
func sections(tokens []Token) [][][]Token {
	var secs [][][]Token
	sec := [][]Token{nil}
	for _, t := range tokens {
		switch t.Kind {
		case TokenEOF:
		case TokenColon:
			secs = append(secs, sec)
			sec = [][]Token{nil}
		case TokenComma:
			sec = append(sec, nil)
		default:
			sec[len(sec)-1] = append(sec[len(sec)-1], t)
		}
	}
	return append(secs, sec)
}

// anchorSection reports whether sec is a single word made of path characters.
func anchorSection(sec [][]Token) bool {
	if !flagSection(sec) {
		return false
	}
	for _, r := range sec[0][0].Text {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '/' && r != '\\' {
			return false
		}
	}
	return true
}

// flagSection ...
func flagSection(sec [][]Token) bool {
	return len(sec) == 1 && len(sec[0]) == 1 && sec[0][0].Kind == TokenWord
}

// trailingFlags returns the run of uppercase letters the text ends with, provided the run
// starts the text or directly follows a colon.
func trailingFlags(text string) (string, bool) {
	i := len(text)
	for i > 0 && text[i-1] >= 'A' && text[i-1] <= 'Z' {
		i--
	}
	if i == len(text) || (i > 0 && text[i-1] != ':') {
		return "", false
	}
	return text[i:], true
}

// build converts a matched layout into a Spec.
func (p *Parser) build(input string, l layout) (Spec, error) {
	var s Spec

	pos, offset, err := coordinates(input, l.values[:3])
	if err != nil {
		return Spec{}, err
	}
	s.Position, s.PositionOffset = &pos, offset

	extra := l.values[3:]
	if len(extra) == 1 && !rotationShaped(extra[0]) {
		if s.RandomOffset, err = randomOffset(input, extra[0]); err != nil {
			return Spec{}, err
		}
		extra = nil
	}
	if len(extra) > 0 {
		if s.Rotation, s.RotationOffset, err = rotation(input, extra[0]); err != nil {
			return Spec{}, err
		}
	}
	if len(extra) > 1 {
		if s.RandomOffset, err = randomOffset(input, extra[1]); err != nil {
			return Spec{}, err
		}
	}

	if l.flags != nil {
		if s.Flags, err = ParseFlags(l.flags.Text); err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Input = input
			}
			return Spec{}, err
		}
	}

	if l.anchor != nil {
		if s.Anchor, err = p.resolveAnchor(input, l.anchor.Text); err != nil {
			return Spec{}, err
		}
	}
	return s, nil
}

// number is a numeric atom: [-]value[(+|-)offset].
type number struct {
	negative bool
	value    string

	offsetSign string
	offset     string
}

// hasOffset ...
func (n number) hasOffset() bool {
	return n.offsetSign != ""
}

// numberOf matches atom against [-]Number[Sign Number].
func numberOf(atom []Token) (number, bool) {
	var n number
	i := 0
	if i < len(atom) && atom[i].Kind == TokenSign {
		if atom[i].Text != "-" {
			return n, false
		}
		n.negative = true
		i++
	}
	if i >= len(atom) || atom[i].Kind != TokenNumber {
		return n, false
	}
	n.value = atom[i].Text
	i++

	if i < len(atom) {
		if i+2 != len(atom) || atom[i].Kind != TokenSign || atom[i+1].Kind != TokenNumber {
			return n, false
		}
		n.offsetSign, n.offset = atom[i].Text, atom[i+1].Text
	}
	return n, true
}

// atomText ...
func atomText(atom []Token) string {
	var b strings.Builder
	for _, t := range atom {
		b.WriteString(t.Text)
	}
	return b.String()
}

// invalidNumber ...
func invalidNumber(input, field, value string) error {
	return &ParseError{Input: input, Field: field, Value: value, Err: ErrInvalidNumber}
}

var (
	axisFields   = [3]string{"x", "y", "z"}
	offsetFields = [3]string{"xOffset", "yOffset", "zOffset"}
)

// coordinates converts the three coordinate atoms. The returned offset is nil unless at least
// one axis carries one.
func coordinates(input string, atoms [][]Token) (mgl64.Vec3, *mgl64.Vec3, error) {
	var (
		pos, offset mgl64.Vec3
		hasOffset   bool
	)
	for i, atom := range atoms {
		n, ok := numberOf(atom)
		if !ok || !isDecimal(n.value) {
			return pos, nil, invalidNumber(input, axisFields[i], atomText(atom))
		}
		v, err := strconv.ParseFloat(n.value, 64)
		if err != nil {
			return pos, nil, invalidNumber(input, axisFields[i], atomText(atom))
		}
		pos[i] = signed(n.negative, v)

		if !n.hasOffset() {
			continue
		}
		if !isDecimal(n.offset) {
			return pos, nil, invalidNumber(input, offsetFields[i], n.offsetSign+n.offset)
		}
		o, err := strconv.ParseFloat(n.offset, 64)
		if err != nil {
			return pos, nil, invalidNumber(input, offsetFields[i], n.offsetSign+n.offset)
		}
		offset[i] = signed(n.offsetSign == "-", o)
		hasOffset = true
	}
	if !hasOffset {
		return pos, nil, nil
	}
	return pos, &offset, nil
}

// rotationShaped reports whether a lone value after the coordinates should be read as a
// rotation rather than a random offset.
func rotationShaped(atom []Token) bool {
	n, ok := numberOf(atom)
	return !ok || n.hasOffset() || isInteger(n.value)
}

// rotation converts a rotation atom. A rotation offset of zero is returned as nil.
func rotation(input string, atom []Token) (*int, *int, error) {
	n, ok := numberOf(atom)
	if !ok || !isInteger(n.value) {
		return nil, nil, invalidNumber(input, "rotation", atomText(atom))
	}
	r, err := strconv.Atoi(n.value)
	if err != nil {
		return nil, nil, invalidNumber(input, "rotation", atomText(atom))
	}
	if n.negative {
		r = -r
	}
	if !n.hasOffset() {
		return &r, nil, nil
	}

	if !isInteger(n.offset) {
		return nil, nil, invalidNumber(input, "offset", n.offsetSign+n.offset)
	}
	o, err := strconv.Atoi(n.offset)
	if err != nil {
		return nil, nil, invalidNumber(input, "offset", n.offsetSign+n.offset)
	}
	if o == 0 {
		return &r, nil, nil
	}
	if n.offsetSign == "-" {
		o = -o
	}
	return &r, &o, nil
}

// randomOffset ...
func randomOffset(input string, atom []Token) (*float64, error) {
	n, ok := numberOf(atom)
	if !ok || n.negative || n.hasOffset() || !isDecimal(n.value) {
		return nil, invalidNumber(input, "randomOffset", atomText(atom))
	}
	v, err := strconv.ParseFloat(n.value, 64)
	if err != nil {
		return nil, invalidNumber(input, "randomOffset", atomText(atom))
	}
	return &v, nil
}

// signed ...
func signed(negative bool, v float64) float64 {
	if negative {
		return -v
	}
	return v
}
