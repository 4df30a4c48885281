package lexer

import (
	"strings"
	"unicode"

	qerrors "github.com/btouchard/qlang/internal/qlang/errors"
	"github.com/btouchard/qlang/internal/qlang/token"
)

// Lexer turns source text into tokens, one physical line at a time.
type Lexer struct {
	input  string
	lines  []string
	row    int    // index of the current line in lines
	line   []rune // current line
	cursor int    // offset in line (runes)
	pos    token.Position
	tokens []token.Token
}

func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize is a shorthand for New(input).Tokenize().
func Tokenize(input string) ([]token.Token, error) {
	return New(input).Tokenize()
}

// Tokenize scans the whole input and returns its tokens, terminated by a
// single EOF token. Scanning stops at the first error.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	l.lines = strings.Split(l.input, "\n")
	l.tokens = nil
	l.pos = token.Position{Line: 1, Column: 1}
	l.loadLine(0)

	for {
		if err := l.scanLine(); err != nil {
			return nil, err
		}
		if l.row+1 >= len(l.lines) {
			break
		}
		l.nextLine()
	}

	l.tokens = append(l.tokens, token.Token{Type: token.EOF, Pos: l.pos.With("")})
	return l.tokens, nil
}

func (l *Lexer) scanLine() error {
	for l.cursor < len(l.line) {
		ch := l.line[l.cursor]

		switch {
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.readChar()
		case ch == '+' || ch == '*' || ch == '/' || ch == '%':
			l.emit(token.BINARY_OP, string(ch))
		case ch == '-':
			if l.minusIsUnary() {
				l.emit(token.UNARY_OP, "-")
			} else {
				l.emit(token.BINARY_OP, "-")
			}
		case ch == '(':
			l.emit(token.LPAREN, "(")
		case ch == ')':
			l.emit(token.RPAREN, ")")
		case ch == '[':
			l.emit(token.LBRACKET, "[")
		case ch == ']':
			l.emit(token.RBRACKET, "]")
		case ch == ',':
			l.emit(token.COMMA, ",")
		case ch == '=' || ch == '!' || ch == '<' || ch == '>':
			if err := l.readComparison(); err != nil {
				return err
			}
		case isDigit(ch) || (ch == '.' && isDigit(l.peekChar())):
			if err := l.readNumber(); err != nil {
				return err
			}
		case ch == '"':
			if err := l.readString(); err != nil {
				return err
			}
		case isLetter(ch):
			if l.readIdentifier() {
				return nil
			}
		default:
			at := l.pos.With(string(ch))
			return qerrors.NewIllegalChar(at, at, string(ch), l.input)
		}
	}
	return nil
}

func (l *Lexer) loadLine(row int) {
	l.row = row
	l.line = []rune(l.lines[row])
	l.cursor = 0
}

// nextLine drops whatever is left on the current line and moves to the
// next one.
func (l *Lexer) nextLine() {
	for l.cursor < len(l.line) {
		l.readChar()
	}
	l.pos.NextLine()
	l.loadLine(l.row + 1)
}

func (l *Lexer) hasMoreLines() bool {
	return l.row+1 < len(l.lines)
}

func (l *Lexer) readChar() rune {
	ch := l.line[l.cursor]
	l.cursor++
	l.pos.Advance(string(ch))
	return ch
}

func (l *Lexer) peekChar() rune {
	if l.cursor+1 >= len(l.line) {
		return 0
	}
	return l.line[l.cursor+1]
}

func (l *Lexer) emit(typ token.TokenType, lit string) {
	l.tokens = append(l.tokens, token.Token{Type: typ, Literal: lit, Pos: l.pos.With(lit)})
	for range []rune(lit) {
		l.readChar()
	}
}

// minusIsUnary looks at the single character after '-', without skipping
// whitespace: a letter, digit, '_' or '(' makes it a unary minus.
func (l *Lexer) minusIsUnary() bool {
	next := l.peekChar()
	return unicode.IsLetter(next) || unicode.IsDigit(next) || next == '_' || next == '('
}

func (l *Lexer) readComparison() error {
	ch := l.line[l.cursor]
	if l.peekChar() == '=' {
		l.emit(token.BINARY_OP, string(ch)+"=")
		return nil
	}

	switch ch {
	case '=':
		l.emit(token.ASSIGN, "=")
	case '!':
		at := l.pos.With("!")
		return qerrors.NewIllegalChar(at, at, "!", l.input)
	default:
		l.emit(token.BINARY_OP, string(ch))
	}
	return nil
}

func (l *Lexer) readNumber() error {
	start := l.cursor
	hasDot := false

	end := start
	for end < len(l.line) && (isDigit(l.line[end]) || l.line[end] == '.') {
		if l.line[end] == '.' {
			if hasDot {
				begin := l.pos.With(string(l.line[start:end]))
				dot := begin
				dot.Column += end - start
				dot.Index += len(string(l.line[start:end]))
				dot.Lexeme = "."
				return qerrors.NewIllegalChar(begin, dot, ".", l.input)
			}
			hasDot = true
		}
		end++
	}

	l.emit(token.NUMBER, string(l.line[start:end]))
	return nil
}

// readString scans a double-quoted string. A literal line break inside the
// string appends '\n' to the value; the \n escape moves scanning to the
// next physical line without appending anything.
func (l *Lexer) readString() error {
	startPos := l.pos
	startLine := l.line
	startRow := l.row
	startCursor := l.cursor

	l.readChar() // opening "

	var value strings.Builder
	for {
		if l.cursor >= len(l.line) {
			if !l.hasMoreLines() {
				return qerrors.NewStringUnterminated(startPos.With(`"`), l.pos.With(""), l.input)
			}
			l.nextLine()
			value.WriteByte('\n')
			continue
		}

		ch := l.line[l.cursor]
		if ch == '"' {
			l.readChar()
			break
		}

		if ch != '\\' {
			value.WriteRune(l.readChar())
			continue
		}

		escape := l.pos.With(`\`)
		if l.cursor+1 >= len(l.line) {
			return qerrors.NewIllegalChar(escape, escape, `\`, l.input)
		}
		next := l.line[l.cursor+1]
		switch next {
		case '\\':
			value.WriteByte('\\')
		case '"':
			value.WriteByte('"')
		case 't':
			value.WriteByte('\t')
		case 'n':
			if !l.hasMoreLines() {
				return qerrors.NewStringUnterminated(startPos.With(`"`), escape, l.input)
			}
			l.nextLine()
			continue
		default:
			bad := escape.With(`\` + string(next))
			return qerrors.NewIllegalChar(escape, bad, `\`+string(next), l.input)
		}
		l.readChar()
		l.readChar()
	}

	raw := string(startLine[startCursor:])
	if l.row == startRow {
		raw = string(l.line[startCursor:l.cursor])
	}
	l.tokens = append(l.tokens, token.Token{Type: token.STRING, Literal: value.String(), Pos: startPos.With(raw)})
	return nil
}

// readIdentifier emits an identifier or keyword token. It reports true when
// the word opened a comment, in which case the rest of the line is skipped.
func (l *Lexer) readIdentifier() bool {
	start := l.cursor
	end := start
	for end < len(l.line) && (isLetter(l.line[end]) || isDigit(l.line[end])) {
		end++
	}
	word := string(l.line[start:end])

	if word == token.Comment {
		for l.cursor < len(l.line) {
			l.readChar()
		}
		return true
	}

	l.emit(token.LookupIdent(word), word)
	return false
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
