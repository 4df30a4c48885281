package lexer

import (
	stderrors "errors"
	"testing"

	qerrors "github.com/btouchard/qlang/internal/qlang/errors"
	"github.com/btouchard/qlang/internal/qlang/token"
)

func TestArithmeticColumns(t *testing.T) {
	input := "40 + 20 * 60 - 40 / 30"

	expected := []struct {
		typ    token.TokenType
		lit    string
		column int
	}{
		{token.NUMBER, "40", 1},
		{token.BINARY_OP, "+", 4},
		{token.NUMBER, "20", 6},
		{token.BINARY_OP, "*", 9},
		{token.NUMBER, "60", 11},
		{token.BINARY_OP, "-", 14},
		{token.NUMBER, "40", 16},
		{token.BINARY_OP, "/", 19},
		{token.NUMBER, "30", 21},
		{token.EOF, "", 23},
	}

	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	if len(tokens) != len(expected) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(expected), tokens)
	}
	for i, exp := range expected {
		tok := tokens[i]
		if tok.Type != exp.typ || tok.Literal != exp.lit {
			t.Errorf("test[%d] - expected %s(%q), got %s(%q)", i, exp.typ, exp.lit, tok.Type, tok.Literal)
		}
		if tok.Pos.Line != 1 || tok.Pos.Column != exp.column {
			t.Errorf("test[%d] - position = %s, want 1:%d", i, tok.Pos, exp.column)
		}
	}
}

func TestKeywords(t *testing.T) {
	for word, typ := range token.Keywords() {
		t.Run(word, func(t *testing.T) {
			tokens, err := Tokenize(word + " + a + 2")
			if err != nil {
				t.Fatalf("Tokenize() error: %v", err)
			}

			n := len([]rune(word))
			expected := []struct {
				typ    token.TokenType
				lit    string
				column int
			}{
				{typ, word, 1},
				{token.BINARY_OP, "+", n + 2},
				{token.IDENT, "a", n + 4},
				{token.BINARY_OP, "+", n + 6},
				{token.NUMBER, "2", n + 8},
				{token.EOF, "", n + 9},
			}

			if len(tokens) != len(expected) {
				t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(expected), tokens)
			}
			for i, exp := range expected {
				if tokens[i].Type != exp.typ || tokens[i].Literal != exp.lit || tokens[i].Pos.Column != exp.column {
					t.Errorf("test[%d] - expected %s(%q) at column %d, got %s", i, exp.typ, exp.lit, exp.column, tokens[i])
				}
			}
		})
	}
}

func TestOperators(t *testing.T) {
	input := `= == != < <= > >= + * / % , ( ) [ ]`

	expected := []struct {
		typ token.TokenType
		lit string
	}{
		{token.ASSIGN, "="}, {token.BINARY_OP, "=="}, {token.BINARY_OP, "!="},
		{token.BINARY_OP, "<"}, {token.BINARY_OP, "<="}, {token.BINARY_OP, ">"},
		{token.BINARY_OP, ">="}, {token.BINARY_OP, "+"}, {token.BINARY_OP, "*"},
		{token.BINARY_OP, "/"}, {token.BINARY_OP, "%"}, {token.COMMA, ","},
		{token.LPAREN, "("}, {token.RPAREN, ")"}, {token.LBRACKET, "["},
		{token.RBRACKET, "]"}, {token.EOF, ""},
	}

	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	for i, exp := range expected {
		if tokens[i].Type != exp.typ || tokens[i].Literal != exp.lit {
			t.Fatalf("test[%d] - expected %s(%q), got %s(%q)", i, exp.typ, exp.lit, tokens[i].Type, tokens[i].Literal)
		}
	}
}

func TestMinus(t *testing.T) {
	tests := []struct {
		input    string
		expected []token.TokenType
	}{
		{"-1", []token.TokenType{token.UNARY_OP, token.NUMBER, token.EOF}},
		{"- 1", []token.TokenType{token.BINARY_OP, token.NUMBER, token.EOF}},
		{"n-1", []token.TokenType{token.IDENT, token.UNARY_OP, token.NUMBER, token.EOF}},
		{"a - b", []token.TokenType{token.IDENT, token.BINARY_OP, token.IDENT, token.EOF}},
		{"-(a)", []token.TokenType{token.UNARY_OP, token.LPAREN, token.IDENT, token.RPAREN, token.EOF}},
		{"-_x", []token.TokenType{token.UNARY_OP, token.IDENT, token.EOF}},
		{"a -", []token.TokenType{token.IDENT, token.BINARY_OP, token.EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize() error: %v", err)
			}
			if len(tokens) != len(tt.expected) {
				t.Fatalf("got %v, want %v", tokens, tt.expected)
			}
			for i, typ := range tt.expected {
				if tokens[i].Type != typ {
					t.Errorf("test[%d] - expected %s, got %s", i, typ, tokens[i].Type)
				}
			}
		})
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"42", "42"},
		{"3.14", "3.14"},
		{".5", ".5"},
		{"10.", "10."},
	}

	for _, tt := range tests {
		tokens, err := Tokenize(tt.input)
		if err != nil {
			t.Fatalf("Tokenize(%q) error: %v", tt.input, err)
		}
		if tokens[0].Type != token.NUMBER || tokens[0].Literal != tt.expected {
			t.Errorf("Tokenize(%q)[0] = %s, want NUMBER(%q)", tt.input, tokens[0], tt.expected)
		}
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", `"bonjour"`, "bonjour"},
		{"empty", `""`, ""},
		{"escaped quote", `"il dit \"oui\""`, `il dit "oui"`},
		{"escaped backslash", `"a\\b"`, `a\b`},
		{"tab", `"a\tb"`, "a\tb"},
		{"newline escape skips the rest of the line", "\"ab\\n ignored\ncd\"", "abcd"},
		{"literal line break", "\"ab\ncd\"", "ab\ncd"},
		{"unicode", `"été"`, "été"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize() error: %v", err)
			}
			if len(tokens) != 2 {
				t.Fatalf("got %v, want one string and EOF", tokens)
			}
			if tokens[0].Type != token.STRING || tokens[0].Literal != tt.expected {
				t.Errorf("got %s, want STRING(%q)", tokens[0], tt.expected)
			}
			if tokens[0].Pos.Line != 1 || tokens[0].Pos.Column != 1 {
				t.Errorf("string position = %s, want 1:1", tokens[0].Pos)
			}
		})
	}
}

func TestStringLexemeIsRawText(t *testing.T) {
	tokens, err := Tokenize(`ecrire "a\tb"`)
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	if got := tokens[1].Pos.Lexeme; got != `"a\tb"` {
		t.Errorf("Lexeme = %q, want %q", got, `"a\tb"`)
	}
	if tokens[1].Pos.Column != 8 {
		t.Errorf("Column = %d, want 8", tokens[1].Pos.Column)
	}
}

func TestComments(t *testing.T) {
	input := "dec a = 1 rem ceci est ignoré\nrem ligne entière\necrire remarque"

	expected := []struct {
		typ  token.TokenType
		lit  string
		line int
	}{
		{token.LET, "dec", 1},
		{token.IDENT, "a", 1},
		{token.ASSIGN, "=", 1},
		{token.NUMBER, "1", 1},
		{token.PRINT, "ecrire", 3},
		{token.IDENT, "remarque", 3},
		{token.EOF, "", 3},
	}

	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	if len(tokens) != len(expected) {
		t.Fatalf("got %v", tokens)
	}
	for i, exp := range expected {
		if tokens[i].Type != exp.typ || tokens[i].Literal != exp.lit || tokens[i].Pos.Line != exp.line {
			t.Errorf("test[%d] - expected %s(%q) on line %d, got %s", i, exp.typ, exp.lit, exp.line, tokens[i])
		}
	}
}

func TestLinesAndIndexes(t *testing.T) {
	input := "dec x = 1\r\n  ecrire x"

	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}

	expected := []struct {
		lit                 string
		index, line, column int
	}{
		{"dec", 0, 1, 1},
		{"x", 4, 1, 5},
		{"=", 6, 1, 7},
		{"1", 8, 1, 9},
		{"ecrire", 13, 2, 3},
		{"x", 20, 2, 10},
		{"", 21, 2, 11},
	}

	for i, exp := range expected {
		pos := tokens[i].Pos
		if tokens[i].Literal != exp.lit || pos.Index != exp.index || pos.Line != exp.line || pos.Column != exp.column {
			t.Errorf("test[%d] - expected %q at %d (%d:%d), got %q at %d (%s)",
				i, exp.lit, exp.index, exp.line, exp.column, tokens[i].Literal, pos.Index, pos)
		}
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		errName string
		details string
		line    int
		column  int
	}{
		{"illegal character", "dec a = 1 @", qerrors.IllegalChar, "'@'", 1, 11},
		{"lone bang", "si !a", qerrors.IllegalChar, "'!'", 1, 4},
		{"second dot", "1.2.3", qerrors.IllegalChar, "'.'", 1, 1},
		{"unknown escape", `"a\qb"`, qerrors.IllegalChar, `'\q'`, 1, 3},
		{"unterminated", "ecrire \"abc", qerrors.StringUnterminated, "La chaîne n'est pas terminée", 1, 8},
		{"unterminated over lines", "\"abc\ndef", qerrors.StringUnterminated, "La chaîne n'est pas terminée", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			if err == nil {
				t.Fatal("expected an error")
			}
			var le *qerrors.Error
			if !stderrors.As(err, &le) {
				t.Fatalf("error type = %T, want *errors.Error", err)
			}
			if le.Name != tt.errName || le.Details != tt.details {
				t.Errorf("error = %q: %q, want %q: %q", le.Name, le.Details, tt.errName, tt.details)
			}
			if le.Start.Line != tt.line || le.Start.Column != tt.column {
				t.Errorf("error start = %s, want %d:%d", le.Start, tt.line, tt.column)
			}
		})
	}
}

func TestIllegalCharacterYieldsNoTokens(t *testing.T) {
	for _, input := range []string{"@", "dec a = 1 #", "ecrire $x"} {
		tokens, err := Tokenize(input)
		if err == nil {
			t.Errorf("Tokenize(%q) error = nil, want %s", input, qerrors.IllegalChar)
		}
		if tokens != nil {
			t.Errorf("Tokenize(%q) tokens = %v, want nil", input, tokens)
		}
	}
}

func TestSecondDotSpan(t *testing.T) {
	_, err := Tokenize("x = 1.2.3")
	var le *qerrors.Error
	if !stderrors.As(err, &le) {
		t.Fatalf("error type = %T", err)
	}
	if le.Start.Column != 5 || le.End.Column != 8 {
		t.Errorf("span = %s..%s, want 1:5..1:8", le.Start, le.End)
	}
}

func TestEmptyInput(t *testing.T) {
	tokens, err := Tokenize("")
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Type != token.EOF {
		t.Fatalf("got %v, want a single EOF", tokens)
	}
	if tokens[0].Pos.Line != 1 || tokens[0].Pos.Column != 1 {
		t.Errorf("EOF position = %s, want 1:1", tokens[0].Pos)
	}
}

func TestUnicodeIdentifiers(t *testing.T) {
	tokens, err := Tokenize("dec année = 2024")
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	if tokens[1].Type != token.IDENT || tokens[1].Literal != "année" {
		t.Errorf("got %s, want IDENT(année)", tokens[1])
	}
	if tokens[2].Pos.Column != 11 {
		t.Errorf("'=' column = %d, want 11", tokens[2].Pos.Column)
	}
}
