package harness

import "strings"

// Output keys use the dotted steps.<id>.outputs.<name> convention, and step
// ids may contain hyphens. Neither is a legal expr-lang identifier, so keys
// and expressions are rewritten to the flat underscore form before
// evaluation.

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// FormatKey converts a dotted output key to its flat underscore form.
func FormatKey(key string) string {
	key = strings.ReplaceAll(key, ".", "_")
	key = strings.ReplaceAll(key, "-", "_")
	return key
}

// FormatExpression rewrites dots and hyphens in identifiers to underscores,
// leaving string literals and numeric literals untouched.
func FormatExpression(e string) string {
	result := []rune(e)
	inSingleQuote := false
	inDoubleQuote := false
	inBacktick := false
	escapeNext := false

	for i, r := range result {
		if escapeNext {
			escapeNext = false
			continue
		}

		if (inDoubleQuote || inSingleQuote) && r == '\\' {
			escapeNext = true
			continue
		}

		switch {
		case r == '\'' && !inDoubleQuote && !inBacktick:
			inSingleQuote = !inSingleQuote
			continue
		case r == '"' && !inSingleQuote && !inBacktick:
			inDoubleQuote = !inDoubleQuote
			continue
		case r == '`' && !inSingleQuote && !inDoubleQuote:
			inBacktick = !inBacktick
			continue
		}

		if inSingleQuote || inDoubleQuote || inBacktick {
			continue
		}

		switch r {
		case '.':
			// Keep dots in numeric literals (e.g. 3.14).
			if i > 0 && i < len(result)-1 && isDigit(result[i-1]) && isDigit(result[i+1]) {
				continue
			}
			result[i] = '_'
		case '-':
			// Hyphens between identifier characters are part of a step or
			// output name; surrounded by spaces they are subtraction.
			if i > 0 && i < len(result)-1 && isIdentRune(result[i-1]) && isIdentRune(result[i+1]) {
				result[i] = '_'
			}
		}
	}
	return string(result)
}

func isIdentRune(r rune) bool {
	return r == '_' || isDigit(r) ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
