// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package snapshot

import (
	"strings"
)

const conflictClause = " ON CONFLICT DO NOTHING"

// Rewrite makes every INSERT statement in the dump idempotent by
// appending an on-conflict-skip clause, leaving column lists and
// value tuples untouched. Statement boundaries are found by a small
// scanner that understands quoted literals, quoted identifiers,
// dollar-quoted strings and SQL comments, so a semicolon inside a
// value can never be mistaken for a terminator. All other statements
// pass through byte for byte.
func Rewrite(dump string) string {
	var out strings.Builder
	out.Grow(len(dump) + len(dump)/64)

	start := 0
	for start < len(dump) {
		end := endOfStatement(dump, start)
		if end < 0 {
			// Trailing text with no terminator.
			out.WriteString(dump[start:])
			break
		}
		stmt := dump[start:end]
		out.WriteString(stmt)
		if isInsert(stmt) {
			out.WriteString(conflictClause)
		}
		out.WriteByte(';')
		start = end + 1
	}
	return out.String()
}

// endOfStatement returns the index of the semicolon terminating the
// statement beginning at start, or -1 if none remains.
func endOfStatement(s string, start int) int {
	i := start
	for i < len(s) {
		switch c := s[i]; {
		case c == ';':
			return i
		case c == '\'':
			i = skipQuoted(s, i, '\'')
		case c == '"':
			i = skipQuoted(s, i, '"')
		case c == '$':
			i = skipDollarQuoted(s, i)
		case c == '-' && i+1 < len(s) && s[i+1] == '-':
			i = skipLineComment(s, i)
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			i = skipBlockComment(s, i)
		default:
			i++
		}
	}
	return -1
}

// skipQuoted consumes a quoted region opened at i. A doubled quote
// character is an escape, not a terminator.
func skipQuoted(s string, i int, quote byte) int {
	i++
	for i < len(s) {
		if s[i] != quote {
			i++
			continue
		}
		if i+1 < len(s) && s[i+1] == quote {
			i += 2
			continue
		}
		return i + 1
	}
	return i
}

// skipDollarQuoted consumes a $tag$...$tag$ string opened at i. If i
// does not actually open a dollar quote, the '$' alone is consumed.
func skipDollarQuoted(s string, i int) int {
	delim := dollarDelimiter(s, i)
	if delim == "" {
		return i + 1
	}
	end := strings.Index(s[i+len(delim):], delim)
	if end < 0 {
		return len(s)
	}
	return i + len(delim) + end + len(delim)
}

// dollarDelimiter returns the $tag$ delimiter starting at i, or ""
// if there is none.
func dollarDelimiter(s string, i int) string {
	j := i + 1
	for j < len(s) && (isTagByte(s[j]) || (j > i+1 && s[j] >= '0' && s[j] <= '9')) {
		j++
	}
	if j < len(s) && s[j] == '$' {
		return s[i : j+1]
	}
	return ""
}

func isTagByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func skipLineComment(s string, i int) int {
	if end := strings.IndexByte(s[i:], '\n'); end >= 0 {
		return i + end + 1
	}
	return len(s)
}

// skipBlockComment consumes a block comment, which Postgres allows to
// nest.
func skipBlockComment(s string, i int) int {
	depth := 1
	i += 2
	for i < len(s) && depth > 0 {
		switch {
		case i+1 < len(s) && s[i] == '/' && s[i+1] == '*':
			depth++
			i += 2
		case i+1 < len(s) && s[i] == '*' && s[i+1] == '/':
			depth--
			i += 2
		default:
			i++
		}
	}
	return i
}

// isInsert reports whether the statement's first keywords are INSERT
// INTO, ignoring leading whitespace and comments.
func isInsert(stmt string) bool {
	i := skipTrivia(stmt, 0)
	rest := stmt[i:]
	if len(rest) < 6 || !strings.EqualFold(rest[:6], "insert") {
		return false
	}
	i = skipTrivia(stmt, i+6)
	rest = stmt[i:]
	return len(rest) >= 5 && strings.EqualFold(rest[:4], "into") &&
		(rest[4] == ' ' || rest[4] == '\t' || rest[4] == '\n')
}

// skipTrivia returns the index of the first byte at or after i that
// is neither whitespace nor part of a comment.
func skipTrivia(s string, i int) int {
	for i < len(s) {
		switch c := s[i]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '-' && i+1 < len(s) && s[i+1] == '-':
			i = skipLineComment(s, i)
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			i = skipBlockComment(s, i)
		default:
			return i
		}
	}
	return i
}
