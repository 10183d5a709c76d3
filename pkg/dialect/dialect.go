// Package dialect maps the surface keyword spellings of each supported ROLEX
// dialect onto canonical names before anything reaches the core. The lexer,
// parser, checker and interpreter are all dialect-agnostic.
package dialect

import (
	"strings"
	"unicode"
)

// Language selects a keyword dialect.
type Language string

const (
	LanguageEN Language = "EN"
	LanguageDK Language = "DK"
)

// CaseStyle selects the naming convention enforced by the checker.
type CaseStyle string

const (
	CaseCamel CaseStyle = "camelCase"
	CaseSnake CaseStyle = "snake_case"
)

// Matches reports whether name follows the convention. camelCase demands a
// lowercase first rune and no underscores; snake_case demands no uppercase.
func (c CaseStyle) Matches(name string) bool {
	if name == "" {
		return false
	}
	switch c {
	case CaseCamel:
		first := []rune(name)[0]
		return unicode.IsLower(first) && !strings.ContainsRune(name, '_')
	case CaseSnake:
		for _, r := range name {
			if unicode.IsUpper(r) {
				return false
			}
		}
		return true
	}
	return false
}

// Dialect is the per-source configuration declared by the two header lines.
type Dialect struct {
	Language Language
	Case     CaseStyle
}

// Keyword is the canonical spelling of a surface keyword.
type Keyword string

const (
	KwFunction Keyword = "function"
	KwIf       Keyword = "if"
	KwThen     Keyword = "then"
	KwElse     Keyword = "else"
	KwWhile    Keyword = "while"
	KwDo       Keyword = "do"
	KwReturn   Keyword = "return"
	KwOutput   Keyword = "output"
	KwInput    Keyword = "input"
	KwAnd      Keyword = "and"
	KwOr       Keyword = "or"
)

// Table resolves the surface words of one dialect. Keywords maps a surface
// spelling to its canonical keyword, Types a surface type name to its
// canonical type name. Boolean literals are the same in every dialect.
type Table struct {
	Keywords map[string]Keyword
	Types    map[string]string
}

var keywordSpellings = map[Language]map[Keyword]string{
	LanguageEN: {
		KwFunction: "function",
		KwIf:       "if",
		KwThen:     "then",
		KwElse:     "else",
		KwWhile:    "while",
		KwDo:       "do",
		KwReturn:   "return",
		KwOutput:   "output",
		KwInput:    "input",
		KwAnd:      "and",
		KwOr:       "or",
	},
	LanguageDK: {
		KwFunction: "funktion",
		KwIf:       "hvis",
		KwThen:     "så",
		KwElse:     "ellers",
		KwWhile:    "mens",
		KwDo:       "gør",
		KwReturn:   "returner",
		KwOutput:   "udskriv",
		KwInput:    "indskriv",
		KwAnd:      "og",
		KwOr:       "eller",
	},
}

var typeSpellings = map[Language]map[string]string{
	LanguageEN: {
		"boolean": "boolean",
		"integer": "integer",
		"decimal": "decimal",
		"string":  "string",
		"noType":  "noType",
	},
	LanguageDK: {
		"boolean":   "boolean",
		"heltal":    "integer",
		"kommatal":  "decimal",
		"tekst":     "string",
		"ingenType": "noType",
	},
}

// For builds the lookup table of one dialect.
func For(lang Language) Table {
	keywords := make(map[string]Keyword, len(keywordSpellings[lang]))
	for canonical, surface := range keywordSpellings[lang] {
		keywords[surface] = canonical
	}
	types := make(map[string]string, len(typeSpellings[lang]))
	for surface, canonical := range typeSpellings[lang] {
		types[surface] = canonical
	}
	return Table{Keywords: keywords, Types: types}
}

// Supported reports whether lang names a known dialect.
func Supported(lang Language) bool {
	_, ok := keywordSpellings[lang]
	return ok
}
