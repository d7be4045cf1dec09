package compose

import (
	"bytes"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/rs/zerolog/log"
)

// Render substitutes every placeholder in the template. Substitution is a single pass: values are
// inserted verbatim and never re-scanned for further placeholders.
func Render(tmpl Template, lookup Lookup, opts Options) (Result, error) {
	var out bytes.Buffer
	out.Grow(len(tmpl.Body))

	used := treeset.NewWithStringComparator()
	missing := treeset.NewWithStringComparator()

	var substitute func(p placeholder) (string, error)

	// expand renders a default or message argument, which may itself hold placeholders
	expand := func(p placeholder) (string, error) {
		var buf bytes.Buffer
		err := scanAt(tmpl.Name, []byte(p.arg), p.line, func(literal []byte) {
			buf.Write(literal)
		}, substitute)
		return buf.String(), err
	}

	substitute = func(p placeholder) (string, error) {
		val, ok := lookup(p.name)
		if ok {
			used.Add(p.name)
		}

		switch p.op {
		case opDefaultIfEmpty:
			if !ok || val == "" {
				return expand(p)
			}
			return val, nil
		case opDefaultIfUnset:
			if !ok {
				return expand(p)
			}
			return val, nil
		case opRequireNonEmpty:
			if !ok || val == "" {
				return "", required(tmpl.Name, p, expand)
			}
			return val, nil
		case opRequireSet:
			if !ok {
				return "", required(tmpl.Name, p, expand)
			}
			return val, nil
		}

		if !ok {
			missing.Add(p.name)
		}
		return val, nil
	}

	err := scan(tmpl, func(literal []byte) {
		out.Write(literal)
	}, substitute)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Content: out.Bytes(),
		Used:    toStrings(used),
		Missing: toStrings(missing),
	}

	if len(result.Missing) > 0 {
		if !opts.AllowMissing {
			return Result{}, &MissingVariablesError{Template: tmpl.Name, Names: result.Missing}
		}
		log.Warn().Strs("variables", result.Missing).Msgf("Unset variables in [%s] expanded to blank", tmpl.Name)
	}

	return result, nil
}

func required(template string, p placeholder, expand func(placeholder) (string, error)) error {
	msg, err := expand(p)
	if err != nil {
		return err
	}
	return &RequiredVariableError{Template: template, Line: p.line, Name: p.name, Message: msg}
}

// Variables lists every variable name referenced by the template, nested ones included, sorted
// and de-duplicated
func Variables(tmpl Template) ([]string, error) {
	names := treeset.NewWithStringComparator()

	var collect func(p placeholder) (string, error)
	collect = func(p placeholder) (string, error) {
		names.Add(p.name)
		if p.arg == "" {
			return "", nil
		}
		return "", scanAt(tmpl.Name, []byte(p.arg), p.line, func([]byte) {}, collect)
	}

	err := scan(tmpl, func([]byte) {}, collect)
	if err != nil {
		return nil, err
	}
	return toStrings(names), nil
}

func toStrings(set *treeset.Set) []string {
	values := make([]string, 0, set.Size())
	for _, v := range set.Values() {
		values = append(values, v.(string))
	}
	return values
}
