// Package format expands the brace templates used for timer report and
// announcement text.
//
// The grammar is a deliberately small subset of brace formatting: "{}"
// or "{0}" substitutes the positional value, "{field}" substitutes a
// named value, and an optional spec after a colon controls numeric
// rendering, e.g. "{seconds:.2f}" or "{:08.4f}". "{{" and "}}" emit
// literal braces. Nested braces, alignment and grouping flags are not
// supported.
package format

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Values holds the substitutions available to a report template. All
// numeric values derive from the elapsed time of a single measurement.
type Values struct {
	Name         string
	Seconds      float64
	Milliseconds float64
	Minutes      float64
}

// Render expands a report template. The positional value is Seconds;
// the named fields are name, seconds, milliseconds and minutes.
func Render(tmpl string, v Values) (string, error) {
	return render(tmpl, v.Seconds, true, func(field string) (any, error) {
		switch field {
		case "name":
			return v.Name, nil
		case "seconds":
			return v.Seconds, nil
		case "milliseconds":
			return v.Milliseconds, nil
		case "minutes":
			return v.Minutes, nil
		default:
			return nil, fmt.Errorf("unknown field %q in template", field)
		}
	})
}

// RenderInitial expands a start announcement template. Only {name} is
// available: no measurement exists yet, so positional and numeric
// fields are errors.
func RenderInitial(tmpl, name string) (string, error) {
	return render(tmpl, nil, false, func(field string) (any, error) {
		if field == "name" {
			return name, nil
		}
		return nil, fmt.Errorf("unknown field %q in announcement template", field)
	})
}

// render walks tmpl and expands each placeholder. positional is the
// single value available to "{}"-style fields (used only when
// hasPositional); lookup resolves named fields to a string or float64.
func render(tmpl string, positional any, hasPositional bool, lookup func(field string) (any, error)) (string, error) {
	var b strings.Builder
	auto := 0
	for i := 0; i < len(tmpl); {
		switch tmpl[i] {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", errors.New("unclosed '{' in template")
			}
			content := tmpl[i+1 : i+1+end]
			i += end + 2

			expanded, err := expand(content, positional, hasPositional, &auto, lookup)
			if err != nil {
				return "", err
			}
			b.WriteString(expanded)
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i += 2
				continue
			}
			return "", errors.New("single '}' in template")
		default:
			b.WriteByte(tmpl[i])
			i++
		}
	}
	return b.String(), nil
}

// expand resolves one placeholder body ("field:spec") to its rendered
// text. auto is the running index handed out to empty field names.
func expand(content string, positional any, hasPositional bool, auto *int, lookup func(field string) (any, error)) (string, error) {
	field, spec, _ := strings.Cut(content, ":")

	var value any
	switch {
	case field == "" || isDigits(field):
		if !hasPositional {
			return "", errors.New("positional placeholder in a template that has no positional value")
		}
		idx := *auto
		if field == "" {
			*auto++
		} else {
			idx, _ = strconv.Atoi(field)
		}
		if idx != 0 {
			return "", fmt.Errorf("positional index %d out of range: only one value is substituted", idx)
		}
		value = positional
	default:
		var err error
		value, err = lookup(field)
		if err != nil {
			return "", err
		}
	}
	return formatValue(spec, value)
}

// formatValue renders value according to spec, a subset of brace format
// specs: [+][0][width][.precision][type] with type one of f F e E g G
// for numbers and s for strings.
func formatValue(spec string, value any) (string, error) {
	switch v := value.(type) {
	case string:
		if spec == "" || spec == "s" {
			return v, nil
		}
		return "", fmt.Errorf("bad format spec %q for string value", spec)
	case float64:
		return formatFloat(spec, v)
	default:
		return "", fmt.Errorf("unsupported value type %T", value)
	}
}

func formatFloat(spec string, f float64) (string, error) {
	if spec == "" {
		return fmt.Sprintf("%v", f), nil
	}

	var verb strings.Builder
	verb.WriteByte('%')
	rest := spec
	if strings.HasPrefix(rest, "+") {
		verb.WriteByte('+')
		rest = rest[1:]
	}
	if len(rest) > 1 && rest[0] == '0' {
		verb.WriteByte('0')
		rest = rest[1:]
	}

	width := leadingDigits(rest)
	verb.WriteString(width)
	rest = rest[len(width):]

	precision := false
	if strings.HasPrefix(rest, ".") {
		digits := leadingDigits(rest[1:])
		if digits == "" {
			return "", fmt.Errorf("bad format spec %q: missing precision digits", spec)
		}
		verb.WriteByte('.')
		verb.WriteString(digits)
		rest = rest[1+len(digits):]
		precision = true
	}

	switch rest {
	case "f", "F":
		verb.WriteByte('f')
	case "e", "E", "g", "G":
		verb.WriteByte(rest[0])
	case "":
		// Bare precision means significant digits; otherwise default
		// rendering, optionally padded.
		if precision {
			verb.WriteByte('g')
		} else {
			verb.WriteByte('v')
		}
	default:
		return "", fmt.Errorf("bad format spec %q", spec)
	}
	return fmt.Sprintf(verb.String(), f), nil
}

func leadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}

func isDigits(s string) bool {
	return s != "" && leadingDigits(s) == s
}
