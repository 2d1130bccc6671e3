package position

// TokenKind ...
type TokenKind uint8

const (
	TokenEOF TokenKind = iota
	// TokenWord is a run of characters starting with something other than a digit or '.'.
	TokenWord
	// TokenNumber is a run of characters starting with a digit or '.'. Its contents are only
	// validated once it is converted for a specific field.
	TokenNumber
	// TokenSign is a single '+' or '-'.
	TokenSign
	TokenComma
	TokenColon
)

// String ...
func (k TokenKind) String() string {
	switch k {
	case TokenWord:
		return "word"
	case TokenNumber:
		return "number"
	case TokenSign:
		return "sign"
	case TokenComma:
		return "comma"
	case TokenColon:
		return "colon"
	default:
		return "eof"
	}
}

// Token is a single lexical element of a position string.
type Token struct {
	Kind TokenKind
	Text string
	// Pos is the byte offset of the token in the input.
	Pos int
}

// Tokenize splits s into tokens. The returned slice always ends with a TokenEOF.
func Tokenize(s string) []Token {
	var tokens []Token
	for i := 0; i < len(s); {
		switch c := s[i]; {
		case c == ',':
			tokens = append(tokens, Token{Kind: TokenComma, Text: ",", Pos: i})
			i++
		case c == ':':
			tokens = append(tokens, Token{Kind: TokenColon, Text: ":", Pos: i})
			i++
		case c == '+' || c == '-':
			tokens = append(tokens, Token{Kind: TokenSign, Text: s[i : i+1], Pos: i})
			i++
		default:
			kind := TokenWord
			if isDigit(c) || c == '.' {
				kind = TokenNumber
			}
			start := i
			for i < len(s) && !isSeparator(s[i]) {
				i++
			}
			tokens = append(tokens, Token{Kind: kind, Text: s[start:i], Pos: start})
		}
	}
	return append(tokens, Token{Kind: TokenEOF, Pos: len(s)})
}

// isSeparator ...
func isSeparator(c byte) bool {
	return c == ',' || c == ':' || c == '+' || c == '-'
}

// isDigit ...
func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isDecimal reports whether s matches \d+(\.\d+)?.
func isDecimal(s string) bool {
	digits, frac, found := cut(s, '.')
	if !isInteger(digits) {
		return false
	}
	return !found || isInteger(frac)
}

// isInteger reports whether s matches \d+.
func isInteger(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// cut ...
func cut(s string, sep byte) (before, after string, found bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}
