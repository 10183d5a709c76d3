// Package lexer turns ROLEX source text into tokens. Keywords and type names
// are resolved through a dialect table, so the token stream is canonical no
// matter which surface spelling the source used.
package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"rolex/interpreter-go/pkg/dialect"
)

// TokenType identifies the kind of a token.
type TokenType int

const (
	EOF TokenType = iota
	ILLEGAL
	NEWLINE

	// Literals and identifiers
	IDENT
	INT
	DECIMAL
	STRING
	BOOLEAN
	TYPE // canonical type name in Lexeme

	// Keywords (canonical)
	FUNCTION
	IF
	THEN
	ELSE
	WHILE
	DO
	RETURN
	OUTPUT
	INPUT
	AND
	OR

	// Punctuation and operators
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
	COMMA
	ASSIGN
	EQ
	NEQ
	LESS
	LESSEQ
	GREATER
	GREATEREQ
	PLUS
	MINUS
	MULT
	DIV
	MOD
	BANG
)

var tokenNames = map[TokenType]string{
	EOF:       "end of input",
	ILLEGAL:   "illegal token",
	NEWLINE:   "newline",
	IDENT:     "identifier",
	INT:       "integer literal",
	DECIMAL:   "decimal literal",
	STRING:    "string literal",
	BOOLEAN:   "boolean literal",
	TYPE:      "type name",
	FUNCTION:  "'function'",
	IF:        "'if'",
	THEN:      "'then'",
	ELSE:      "'else'",
	WHILE:     "'while'",
	DO:        "'do'",
	RETURN:    "'return'",
	OUTPUT:    "'output'",
	INPUT:     "'input'",
	AND:       "'and'",
	OR:        "'or'",
	LPAREN:    "'('",
	RPAREN:    "')'",
	LBRACKET:  "'['",
	RBRACKET:  "']'",
	LBRACE:    "'{'",
	RBRACE:    "'}'",
	COMMA:     "','",
	ASSIGN:    "'='",
	EQ:        "'=='",
	NEQ:       "'!='",
	LESS:      "'<'",
	LESSEQ:    "'<='",
	GREATER:   "'>'",
	GREATEREQ: "'>='",
	PLUS:      "'+'",
	MINUS:     "'-'",
	MULT:      "'*'",
	DIV:       "'/'",
	MOD:       "'%'",
	BANG:      "'!'",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

var keywordTokens = map[dialect.Keyword]TokenType{
	dialect.KwFunction: FUNCTION,
	dialect.KwIf:       IF,
	dialect.KwThen:     THEN,
	dialect.KwElse:     ELSE,
	dialect.KwWhile:    WHILE,
	dialect.KwDo:       DO,
	dialect.KwReturn:   RETURN,
	dialect.KwOutput:   OUTPUT,
	dialect.KwInput:    INPUT,
	dialect.KwAnd:      AND,
	dialect.KwOr:       OR,
}

// Token is one lexical token with its source position.
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
	Column int
}

// Lexer scans one source body. Positions start at the supplied line so tokens
// from a body following the two header lines still point into the real file.
type Lexer struct {
	src    string
	table  dialect.Table
	pos    int
	line   int
	column int
}

// New builds a lexer over src using the dialect's lookup table. startLine is
// the 1-based line number of the first source line.
func New(src string, table dialect.Table, startLine int) *Lexer {
	if startLine < 1 {
		startLine = 1
	}
	return &Lexer{src: src, table: table, line: startLine, column: 1}
}

// Tokens scans the whole input, ending with exactly one EOF token.
func (l *Lexer) Tokens() []Token {
	var out []Token
	for {
		tok := l.Next()
		out = append(out, tok)
		if tok.Type == EOF {
			return out
		}
	}
}

// Next returns the next token. Consecutive newlines collapse into one NEWLINE
// token; spaces, tabs and // comments are skipped.
func (l *Lexer) Next() Token {
	l.skipBlank()

	if l.pos >= len(l.src) {
		return Token{Type: EOF, Line: l.line, Column: l.column}
	}

	line, column := l.line, l.column
	ch := l.src[l.pos]

	switch ch {
	case '\n':
		for l.pos < len(l.src) {
			l.skipBlank()
			if l.pos < len(l.src) && l.src[l.pos] == '\n' {
				l.advance()
				continue
			}
			break
		}
		return Token{Type: NEWLINE, Lexeme: "\n", Line: line, Column: column}
	case '(':
		l.advance()
		return Token{Type: LPAREN, Lexeme: "(", Line: line, Column: column}
	case ')':
		l.advance()
		return Token{Type: RPAREN, Lexeme: ")", Line: line, Column: column}
	case '[':
		l.advance()
		return Token{Type: LBRACKET, Lexeme: "[", Line: line, Column: column}
	case ']':
		l.advance()
		return Token{Type: RBRACKET, Lexeme: "]", Line: line, Column: column}
	case '{':
		l.advance()
		return Token{Type: LBRACE, Lexeme: "{", Line: line, Column: column}
	case '}':
		l.advance()
		return Token{Type: RBRACE, Lexeme: "}", Line: line, Column: column}
	case ',':
		l.advance()
		return Token{Type: COMMA, Lexeme: ",", Line: line, Column: column}
	case '+':
		l.advance()
		return Token{Type: PLUS, Lexeme: "+", Line: line, Column: column}
	case '-':
		l.advance()
		return Token{Type: MINUS, Lexeme: "-", Line: line, Column: column}
	case '*':
		l.advance()
		return Token{Type: MULT, Lexeme: "*", Line: line, Column: column}
	case '/':
		l.advance()
		return Token{Type: DIV, Lexeme: "/", Line: line, Column: column}
	case '%':
		l.advance()
		return Token{Type: MOD, Lexeme: "%", Line: line, Column: column}
	case '=':
		l.advance()
		if l.peekByte() == '=' {
			l.advance()
			return Token{Type: EQ, Lexeme: "==", Line: line, Column: column}
		}
		return Token{Type: ASSIGN, Lexeme: "=", Line: line, Column: column}
	case '!':
		l.advance()
		if l.peekByte() == '=' {
			l.advance()
			return Token{Type: NEQ, Lexeme: "!=", Line: line, Column: column}
		}
		return Token{Type: BANG, Lexeme: "!", Line: line, Column: column}
	case '<':
		l.advance()
		if l.peekByte() == '=' {
			l.advance()
			return Token{Type: LESSEQ, Lexeme: "<=", Line: line, Column: column}
		}
		return Token{Type: LESS, Lexeme: "<", Line: line, Column: column}
	case '>':
		l.advance()
		if l.peekByte() == '=' {
			l.advance()
			return Token{Type: GREATEREQ, Lexeme: ">=", Line: line, Column: column}
		}
		return Token{Type: GREATER, Lexeme: ">", Line: line, Column: column}
	case '"':
		return l.scanString(line, column)
	}

	if ch >= '0' && ch <= '9' {
		return l.scanNumber(line, column)
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	if unicode.IsLetter(r) || r == '_' {
		return l.scanWord(line, column)
	}

	l.advance()
	return Token{Type: ILLEGAL, Lexeme: string(r), Line: line, Column: column}
}

func (l *Lexer) skipBlank() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\r':
			l.advance()
		case '/':
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == '/' {
				for l.pos < len(l.src) && l.src[l.pos] != '\n' {
					l.advance()
				}
				continue
			}
			return
		default:
			return
		}
	}
}

func (l *Lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) advance() {
	if l.pos >= len(l.src) {
		return
	}
	if l.src[l.pos] == '\n' {
		l.line++
		l.column = 1
		l.pos++
		return
	}
	_, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	l.column++
}

func (l *Lexer) scanString(line, column int) Token {
	start := l.pos
	l.advance() // opening quote
	for l.pos < len(l.src) && l.src[l.pos] != '"' && l.src[l.pos] != '\n' {
		l.advance()
	}
	if l.pos >= len(l.src) || l.src[l.pos] == '\n' {
		return Token{Type: ILLEGAL, Lexeme: l.src[start:l.pos], Line: line, Column: column}
	}
	l.advance() // closing quote
	return Token{Type: STRING, Lexeme: l.src[start:l.pos], Line: line, Column: column}
}

func (l *Lexer) scanNumber(line, column int) Token {
	start := l.pos
	for l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '9' {
		l.advance()
	}
	typ := INT
	if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && l.src[l.pos+1] >= '0' && l.src[l.pos+1] <= '9' {
		typ = DECIMAL
		l.advance()
		for l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '9' {
			l.advance()
		}
	}
	return Token{Type: typ, Lexeme: l.src[start:l.pos], Line: line, Column: column}
}

func (l *Lexer) scanWord(line, column int) Token {
	start := l.pos
	for l.pos < len(l.src) {
		r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		l.advance()
	}
	word := l.src[start:l.pos]

	if word == "true" || word == "false" {
		return Token{Type: BOOLEAN, Lexeme: word, Line: line, Column: column}
	}
	if kw, ok := l.table.Keywords[word]; ok {
		return Token{Type: keywordTokens[kw], Lexeme: string(kw), Line: line, Column: column}
	}
	if canonical, ok := l.table.Types[word]; ok {
		return Token{Type: TYPE, Lexeme: canonical, Line: line, Column: column}
	}
	return Token{Type: IDENT, Lexeme: word, Line: line, Column: column}
}
