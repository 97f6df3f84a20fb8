package analysis

import (
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokString
	tokWord
	tokNumber
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	// joined is set on a word that follows the previous word with only
	// spaces or tabs in between, so multi-word names can be rebuilt.
	joined bool
}

const maxNesting = 64

// tokenize splits near-JSON text into strings, bare words, numbers and the
// punctuation { } [ ] : ,. Every other character is dropped.
func tokenize(text string) []token {
	var toks []token
	gapSpacesOnly := false
	prevWord := false

	emit := func(t token) {
		if t.kind == tokWord && prevWord && gapSpacesOnly {
			t.joined = true
		}
		prevWord = t.kind == tokWord
		gapSpacesOnly = true
		toks = append(toks, t)
	}

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case r == ' ' || r == '\t':
			i += size
		case r == '"':
			s, n := scanQuoted(text[i:], '"')
			emit(token{kind: tokString, text: s})
			i += n
		case r == '\'' && !precededByWordChar(text, i):
			s, n := scanQuoted(text[i:], '\'')
			emit(token{kind: tokString, text: s})
			i += n
		case strings.ContainsRune("{}[]:,", r):
			emit(token{kind: tokPunct, text: string(r)})
			i += size
		case isNumberStart(text, i):
			n := scanNumber(text[i:])
			emit(token{kind: tokNumber, text: text[i : i+n]})
			i += n
		case isWordRune(r):
			n := scanWord(text[i:])
			emit(token{kind: tokWord, text: text[i : i+n]})
			i += n
		default:
			gapSpacesOnly = false
			i += size
		}
	}
	return append(toks, token{kind: tokEOF})
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func precededByWordChar(text string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return isWordRune(r)
}

func isNumberStart(text string, i int) bool {
	c := text[i]
	if c >= '0' && c <= '9' {
		return !precededByWordChar(text, i)
	}
	if (c == '-' || c == '.') && i+1 < len(text) {
		next := text[i+1]
		return next >= '0' && next <= '9'
	}
	return false
}

func scanNumber(s string) int {
	n := 0
	if s[0] == '-' {
		n++
	}
	digits := func() {
		for n < len(s) && s[n] >= '0' && s[n] <= '9' {
			n++
		}
	}
	digits()
	if n < len(s) && s[n] == '.' {
		n++
		digits()
	}
	if n+1 < len(s) && (s[n] == 'e' || s[n] == 'E') {
		m := n + 1
		if s[m] == '+' || s[m] == '-' {
			m++
		}
		if m < len(s) && s[m] >= '0' && s[m] <= '9' {
			n = m
			digits()
		}
	}
	return n
}

func scanWord(s string) int {
	n := 0
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if !isWordRune(r) {
			break
		}
		n += size
	}
	return n
}

// scanQuoted reads a quoted string starting at s[0]. An unterminated string
// runs to the end of s.
func scanQuoted(s string, quote byte) (string, int) {
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(s[i])
			}
		case c == quote:
			return b.String(), i + 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), len(s)
}

// parser reads key/value pairs out of a token stream with a forgiving
// grammar: missing commas, trailing commas, unquoted keys, single quotes and
// unterminated containers are all accepted.
type parser struct {
	toks  []token
	pos   int
	depth int
}

// scanText parses every key/value pair found anywhere in text. Containers
// that appear without a key are kept under an empty key.
func scanText(text string) object {
	p := &parser{toks: tokenize(text)}
	return p.members("")
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

// keyAhead reports whether the tokens at the cursor form a key followed by a colon.
func (p *parser) keyAhead() bool {
	i := p.pos
	switch p.toks[i].kind {
	case tokString:
		i++
	case tokWord:
		i++
		for p.toks[i].kind == tokWord && p.toks[i].joined {
			i++
		}
	default:
		return false
	}
	return p.toks[i].kind == tokPunct && p.toks[i].text == ":"
}

func (p *parser) key() (string, bool) {
	t := p.next()
	if t.kind == tokString {
		return t.text, false
	}
	k := p.wordRun(t.text)
	return k, strings.Contains(k, " ")
}

func (p *parser) wordRun(first string) string {
	parts := []string{first}
	for p.peek().kind == tokWord && p.peek().joined {
		parts = append(parts, p.next().text)
	}
	return strings.Join(parts, " ")
}

func (p *parser) members(closing string) object {
	obj := object{}
	for {
		t := p.peek()
		switch {
		case t.kind == tokEOF:
			return obj
		case t.kind == tokPunct && t.text == closing:
			p.next()
			return obj
		case t.kind == tokPunct && (t.text == "{" || t.text == "["):
			if v := p.value(); v != nil {
				obj = append(obj, member{value: v})
			}
		case p.keyAhead():
			k, phrase := p.key()
			p.next() // colon
			quoted := p.peek().kind == tokString
			obj = append(obj, member{key: k, value: p.value(), phrase: phrase, quoted: quoted})
		default:
			p.next()
		}
	}
}

func (p *parser) elements() array {
	arr := array{}
	for {
		t := p.peek()
		switch {
		case t.kind == tokEOF:
			return arr
		case t.kind == tokPunct && t.text == "]":
			p.next()
			return arr
		case t.kind == tokPunct && t.text == "}":
			// Leave a mismatched closer for the enclosing object.
			return arr
		case t.kind == tokPunct && (t.text == "," || t.text == ":"):
			p.next()
		default:
			before := p.pos
			if v := p.value(); v != nil {
				arr = append(arr, v)
			}
			if p.pos == before {
				p.next()
			}
		}
	}
}

// value parses one value at the cursor. It returns nil without consuming
// anything when the next tokens start another key or close a container.
func (p *parser) value() any {
	t := p.peek()
	switch t.kind {
	case tokPunct:
		switch t.text {
		case "{", "[":
			if p.depth >= maxNesting {
				p.next()
				return nil
			}
			p.next()
			p.depth++
			defer func() { p.depth-- }()
			if t.text == "{" {
				return p.members("}")
			}
			return p.elements()
		}
		return nil
	case tokString:
		if p.keyAhead() {
			return nil
		}
		return p.next().text
	case tokNumber:
		return json.Number(p.next().text)
	case tokWord:
		if p.keyAhead() {
			return nil
		}
		return p.wordRun(p.next().text)
	}
	return nil
}
