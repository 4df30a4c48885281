package token

import (
	"fmt"
	"sort"
	"strings"
)

type TokenType string

// Position locates a lexeme in the source. Index is a byte offset, Line and
// Column are 1-based (Column counts runes).
type Position struct {
	Index  int
	Line   int
	Column int
	Lexeme string
}

// Advance moves the position past text on the current line.
func (p *Position) Advance(text string) {
	n := len([]rune(text))
	if n == 0 {
		n = 1
	}
	p.Index += len(text)
	p.Column += n
	p.Lexeme = text
}

// NextLine moves the position to the first column of the following line.
// The consumed newline counts for one byte.
func (p *Position) NextLine() {
	p.Index++
	p.Line++
	p.Column = 1
	p.Lexeme = ""
}

// With returns a copy of the position carrying lexeme.
func (p Position) With(lexeme string) Position {
	p.Lexeme = lexeme
	return p
}

// EndColumn is the column just past the lexeme.
func (p Position) EndColumn() int {
	return p.Column + len([]rune(p.Lexeme))
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %s", t.Type, t.Literal, t.Pos)
}

const (
	// Special
	EOF TokenType = "EOF"

	// Literals
	IDENT   TokenType = "IDENT"
	NUMBER  TokenType = "NUMBER"
	STRING  TokenType = "STRING"
	BOOLEAN TokenType = "BOOLEAN"
	NULL    TokenType = "NULL"

	// Operators
	ASSIGN    TokenType = "="
	BINARY_OP TokenType = "BINARY_OP"
	UNARY_OP  TokenType = "UNARY_OP"

	// Delimiters
	COMMA    TokenType = ","
	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	// Keywords
	LET      TokenType = "LET"
	IF       TokenType = "IF"
	THEN     TokenType = "THEN"
	ELSE     TokenType = "ELSE"
	ELSEIF   TokenType = "ELSEIF"
	END      TokenType = "END"
	WHILE    TokenType = "WHILE"
	FOR      TokenType = "FOR"
	FROM     TokenType = "FROM"
	UNTIL    TokenType = "UNTIL"
	STEP     TokenType = "STEP"
	FUNCTION TokenType = "FUNCTION"
	RETURN   TokenType = "RETURN"
	BREAK    TokenType = "BREAK"
	CONTINUE TokenType = "CONTINUE"
	PRINT    TokenType = "PRINT"
	READ     TokenType = "READ"
)

// Comment starts a comment running to the end of the line.
const Comment = "rem"

// Operator spellings that are words rather than symbols.
const (
	And = "et"
	Or  = "ou"
	Not = "non"
)

var keywords = map[string]TokenType{
	"dec":       LET,
	"si":        IF,
	"alors":     THEN,
	"sinon":     ELSE,
	"sinonsi":   ELSEIF,
	"fin":       END,
	"tantque":   WHILE,
	"pour":      FOR,
	"de":        FROM,
	"jusque":    UNTIL,
	"evol":      STEP,
	"fonction":  FUNCTION,
	"retour":    RETURN,
	"arreter":   BREAK,
	"continuer": CONTINUE,
	"rien":      NULL,
	"vrai":      BOOLEAN,
	"faux":      BOOLEAN,
	"lire":      READ,
	"ecrire":    PRINT,
	And:         BINARY_OP,
	Or:          BINARY_OP,
	Not:         UNARY_OP,
}

// Keywords returns the keyword table as a fresh map.
func Keywords() map[string]TokenType {
	out := make(map[string]TokenType, len(keywords))
	for k, v := range keywords {
		out[k] = v
	}
	return out
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Describe renders a token type the way users write it, for messages such
// as "'alors' attendu". Keyword types list every spelling.
func Describe(t TokenType) string {
	switch t {
	case IDENT:
		return "identifiant"
	case NUMBER:
		return "nombre"
	case STRING:
		return "chaîne"
	case EOF:
		return "fin de fichier"
	case BINARY_OP, UNARY_OP:
		return "opérateur"
	case ASSIGN, COMMA, LPAREN, RPAREN, LBRACKET, RBRACKET:
		return string(t)
	}

	var words []string
	for word, typ := range keywords {
		if typ == t {
			words = append(words, word)
		}
	}
	if len(words) == 0 {
		return string(t)
	}
	sort.Strings(words)
	return strings.Join(words, "' ou '")
}
