package parser

import "unicode"

// whitespace lists every rune treated as blank. It is spelled out so that
// classification never depends on locale or Unicode table versions.
var whitespace = map[rune]bool{
	'\t':     true,
	'\v':     true,
	'\f':     true,
	' ':      true,
	'\u0085': true,
	'\u00a0': true,
	'\u1680': true,
	'\u2000': true,
	'\u2001': true,
	'\u2002': true,
	'\u2003': true,
	'\u2004': true,
	'\u2005': true,
	'\u2006': true,
	'\u2007': true,
	'\u2008': true,
	'\u2009': true,
	'\u200a': true,
	'\u202f': true,
	'\u205f': true,
	'\u3000': true,
	'\ufeff': true,
}

func IsWhitespace(r rune) bool {
	return whitespace[r]
}

func IsNewline(r rune) bool {
	switch r {
	case '\n', '\r', '\u2028', '\u2029':
		return true
	}
	return false
}

func IsDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func IsIdentifierStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r > 0x7f && unicode.IsLetter(r))
}

func IsIdentifierPart(r rune) bool {
	return IsIdentifierStart(r) || IsDigit(r)
}

func IsLineComment(a, b rune) bool {
	return a == '/' && b == '/'
}

func IsBlockCommentStart(a, b rune) bool {
	return a == '/' && b == '*'
}

func IsBlockCommentEnd(a, b rune) bool {
	return a == '*' && b == '/'
}
