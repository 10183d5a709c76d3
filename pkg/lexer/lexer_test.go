package lexer

import (
	"testing"

	"rolex/interpreter-go/pkg/dialect"
)

func types(src string, lang dialect.Language) []TokenType {
	var out []TokenType
	for _, tok := range New(src, dialect.For(lang), 1).Tokens() {
		out = append(out, tok.Type)
	}
	return out
}

func TestEnglishKeywords(t *testing.T) {
	got := types("function integer main() { output 2 + 3 }", dialect.LanguageEN)
	want := []TokenType{
		FUNCTION, TYPE, IDENT, LPAREN, RPAREN, LBRACE,
		OUTPUT, INT, PLUS, INT, RBRACE, EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDanishKeywordsWithNonAsciiLetters(t *testing.T) {
	got := types("hvis x så { udskriv 1 } ellers { }", dialect.LanguageDK)
	want := []TokenType{
		IF, IDENT, THEN, LBRACE, OUTPUT, INT, RBRACE, ELSE, LBRACE, RBRACE, EOF,
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestKeywordsAreDialectLocal(t *testing.T) {
	got := types("udskriv mens", dialect.LanguageEN)
	if got[0] != IDENT || got[1] != IDENT {
		t.Fatalf("danish words must lex as identifiers under EN, got %v", got)
	}
}

func TestNewlineRunsCollapse(t *testing.T) {
	got := types("1\n\n\n2", dialect.LanguageEN)
	want := []TokenType{INT, NEWLINE, INT, EOF}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	got := types("1 // trailing words\n2", dialect.LanguageEN)
	want := []TokenType{INT, NEWLINE, INT, EOF}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNumbersAndOperators(t *testing.T) {
	toks := New("1.5 <= 2 != x == true", dialect.For(dialect.LanguageEN), 1).Tokens()
	want := []TokenType{DECIMAL, LESSEQ, INT, NEQ, IDENT, EQ, BOOLEAN, EOF}
	for i := range want {
		if toks[i].Type != want[i] {
			t.Fatalf("token %d = %s, want %s", i, toks[i].Type, want[i])
		}
	}
}

func TestStringLexemeKeepsQuotes(t *testing.T) {
	toks := New(`"hej verden"`, dialect.For(dialect.LanguageEN), 1).Tokens()
	if toks[0].Type != STRING || toks[0].Lexeme != `"hej verden"` {
		t.Fatalf("token = %s %q", toks[0].Type, toks[0].Lexeme)
	}
}

func TestPositionsRespectStartLine(t *testing.T) {
	toks := New("a\nb", dialect.For(dialect.LanguageEN), 4).Tokens()
	if toks[0].Line != 4 {
		t.Fatalf("first token line = %d, want 4", toks[0].Line)
	}
	// a NEWLINE b
	if toks[2].Line != 5 {
		t.Fatalf("second identifier line = %d, want 5", toks[2].Line)
	}
}

func TestUnterminatedString(t *testing.T) {
	toks := New(`"open`, dialect.For(dialect.LanguageEN), 1).Tokens()
	if toks[0].Type != ILLEGAL {
		t.Fatalf("token = %s, want illegal", toks[0].Type)
	}
}
