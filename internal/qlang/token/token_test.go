package token

import "testing"

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
	}{
		// Keywords
		{"dec", LET},
		{"si", IF},
		{"alors", THEN},
		{"sinon", ELSE},
		{"sinonsi", ELSEIF},
		{"fin", END},
		{"tantque", WHILE},
		{"pour", FOR},
		{"de", FROM},
		{"jusque", UNTIL},
		{"evol", STEP},
		{"fonction", FUNCTION},
		{"retour", RETURN},
		{"arreter", BREAK},
		{"continuer", CONTINUE},
		{"rien", NULL},
		{"vrai", BOOLEAN},
		{"faux", BOOLEAN},
		{"lire", READ},
		{"ecrire", PRINT},
		{"et", BINARY_OP},
		{"ou", BINARY_OP},
		{"non", UNARY_OP},
		// Non-keywords
		{"rem", IDENT},
		{"Si", IDENT},
		{"age", IDENT},
		{"ma_variable", IDENT},
		{"", IDENT},
	}

	for _, tt := range tests {
		result := LookupIdent(tt.input)
		if result != tt.expected {
			t.Errorf("LookupIdent(%q) = %v, want %v", tt.input, result, tt.expected)
		}
	}
}

func TestKeywordsIsACopy(t *testing.T) {
	kw := Keywords()
	delete(kw, "si")
	if LookupIdent("si") != IF {
		t.Fatal("mutating Keywords() result changed the keyword table")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		typ      TokenType
		expected string
	}{
		{THEN, "alors"},
		{END, "fin"},
		{BOOLEAN, "faux' ou 'vrai"},
		{IDENT, "identifiant"},
		{LPAREN, "("},
		{RBRACKET, "]"},
		{EOF, "fin de fichier"},
	}

	for _, tt := range tests {
		if got := Describe(tt.typ); got != tt.expected {
			t.Errorf("Describe(%s) = %q, want %q", tt.typ, got, tt.expected)
		}
	}
}

func TestPositionAdvance(t *testing.T) {
	pos := Position{Line: 1, Column: 1}
	pos.Advance("dec")
	if pos.Column != 4 || pos.Index != 3 || pos.Lexeme != "dec" {
		t.Fatalf("after Advance(dec) = %+v", pos)
	}

	// multi-byte rune counts for one column
	pos.Advance("é")
	if pos.Column != 5 || pos.Index != 5 {
		t.Fatalf("after Advance(é) = %+v", pos)
	}

	// empty text still moves one column
	pos.Advance("")
	if pos.Column != 6 || pos.Index != 5 {
		t.Fatalf("after Advance(\"\") = %+v", pos)
	}

	pos.NextLine()
	if pos.Line != 2 || pos.Column != 1 || pos.Index != 6 {
		t.Fatalf("after NextLine() = %+v", pos)
	}
}

func TestPositionWithIsASnapshot(t *testing.T) {
	pos := Position{Line: 1, Column: 1}
	snap := pos.With("si")
	pos.Advance("si")

	if snap.Column != 1 || snap.Lexeme != "si" {
		t.Fatalf("snapshot changed: %+v", snap)
	}
	if snap.EndColumn() != 3 {
		t.Fatalf("EndColumn() = %d, want 3", snap.EndColumn())
	}
}
