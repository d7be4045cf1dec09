package compose

import "bytes"

type operator int

const (
	opNone            operator = iota
	opDefaultIfEmpty           // ${NAME:-default}
	opDefaultIfUnset           // ${NAME-default}
	opRequireNonEmpty          // ${NAME:?message}
	opRequireSet               // ${NAME?message}
)

type placeholder struct {
	name string
	op   operator
	arg  string
	line int
}

// scan walks the template, handing literal runs to emit and each placeholder to substitute.
// `$$` is an escaped dollar sign. A `$` not followed by a name or brace is kept as-is.
func scan(tmpl Template, emit func([]byte), substitute func(placeholder) (string, error)) error {
	return scanAt(tmpl.Name, tmpl.Body, 1, emit, substitute)
}

// scanAt scans body as if it started on the given line of the named template. Default and
// message arguments are scanned through it so that nested placeholders resolve.
func scanAt(name string, body []byte, line int, emit func([]byte), substitute func(placeholder) (string, error)) error {
	start := 0

	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\n' {
			line++
			continue
		}
		if c != '$' || i+1 >= len(body) {
			continue
		}

		next := body[i+1]
		switch {
		case next == '$':
			emit(body[start : i+1])
			i++
			start = i + 1

		case next == '{':
			end := closingBrace(body[i+2:])
			if end < 0 {
				return &SyntaxError{Template: name, Line: line, Reason: "unterminated ${"}
			}
			inner := string(body[i+2 : i+2+end])
			p, ok := parseBraced(inner)
			if !ok {
				return &SyntaxError{Template: name, Line: line, Reason: "bad expression ${" + inner + "}"}
			}
			p.line = line

			emit(body[start:i])
			val, err := substitute(p)
			if err != nil {
				return err
			}
			emit([]byte(val))

			line += bytes.Count(body[i+2:i+2+end], []byte{'\n'})
			i = i + 2 + end
			start = i + 1

		case isNameStart(next):
			j := i + 1
			for j < len(body) && isNameChar(body[j]) {
				j++
			}

			emit(body[start:i])
			val, err := substitute(placeholder{name: string(body[i+1 : j]), line: line})
			if err != nil {
				return err
			}
			emit([]byte(val))

			i = j - 1
			start = j
		}
	}

	emit(body[start:])
	return nil
}

// closingBrace returns the index of the `}` closing an expression whose `${` precedes b, skipping
// over nested `${...}` and `$$`. It returns -1 when there is none.
func closingBrace(b []byte) int {
	depth := 1
	for k := 0; k < len(b); k++ {
		switch {
		case b[k] == '$' && k+1 < len(b) && b[k+1] == '$':
			k++
		case b[k] == '$' && k+1 < len(b) && b[k+1] == '{':
			depth++
			k++
		case b[k] == '}':
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return -1
}

func parseBraced(inner string) (placeholder, bool) {
	if inner == "" || !isNameStart(inner[0]) {
		return placeholder{}, false
	}

	n := 1
	for n < len(inner) && isNameChar(inner[n]) {
		n++
	}
	p := placeholder{name: inner[:n]}
	rest := inner[n:]

	switch {
	case rest == "":
		p.op = opNone
	case len(rest) >= 2 && rest[:2] == ":-":
		p.op, p.arg = opDefaultIfEmpty, rest[2:]
	case len(rest) >= 2 && rest[:2] == ":?":
		p.op, p.arg = opRequireNonEmpty, rest[2:]
	case rest[0] == '-':
		p.op, p.arg = opDefaultIfUnset, rest[1:]
	case rest[0] == '?':
		p.op, p.arg = opRequireSet, rest[1:]
	default:
		return placeholder{}, false
	}
	return p, true
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}
