package dialect

import (
	"strings"

	"rolex/interpreter-go/pkg/diag"
)

// Header is the parsed two-line source preamble.
type Header struct {
	Dialect Dialect
	// BodyOffset is the byte offset of the first line after the header.
	BodyOffset int
	// BodyLine is the 1-based source line the body starts on, so downstream
	// positions keep matching the original file.
	BodyLine int
}

// ParseHeader extracts the mandatory preamble:
//
//	Language EN
//	Case camelCase
//
// Leading blank lines are permitted before and between the two lines. Any
// violation is a Structure error, matching the "exactly one dialect/naming
// header" rule.
func ParseHeader(src string) (Header, error) {
	offset := 0
	line := 1

	lang, rest, langLine, err := headerField(src, &offset, &line, "Language")
	if err != nil {
		return Header{}, err
	}
	if !Supported(Language(lang)) {
		return Header{}, diag.Errorf(diag.KindStructure,
			"unsupported language %q, expected EN or DK", lang).At(langLine, 1)
	}

	caseStyle, rest, caseLine, err := headerField(rest, &offset, &line, "Case")
	if err != nil {
		return Header{}, err
	}
	style := CaseStyle(caseStyle)
	if style != CaseCamel && style != CaseSnake {
		return Header{}, diag.Errorf(diag.KindStructure,
			"unsupported case style %q, expected camelCase or snake_case", caseStyle).At(caseLine, 1)
	}

	_ = rest
	return Header{
		Dialect:    Dialect{Language: Language(lang), Case: style},
		BodyOffset: offset,
		BodyLine:   line,
	}, nil
}

// headerField consumes blank lines, then one "<key> <value>" line. offset and
// line track how much of the full source has been consumed.
func headerField(src string, offset *int, line *int, key string) (value, rest string, fieldLine int, err error) {
	remaining := src
	for {
		nl := strings.IndexByte(remaining, '\n')
		var current string
		if nl < 0 {
			current = remaining
		} else {
			current = remaining[:nl]
		}
		trimmed := strings.TrimSpace(current)
		if trimmed == "" && nl >= 0 {
			remaining = remaining[nl+1:]
			*offset += nl + 1
			*line++
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) != 2 || fields[0] != key {
			return "", "", 0, diag.Errorf(diag.KindStructure,
				"missing %s header line, expected %q", key, key+" ...").At(*line, 1)
		}
		fieldLine = *line
		if nl < 0 {
			remaining = ""
			*offset += len(current)
		} else {
			remaining = remaining[nl+1:]
			*offset += nl + 1
		}
		*line++
		return fields[1], remaining, fieldLine, nil
	}
}
