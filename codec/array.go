package codec

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/tuannm99/typedcol"
)

// Array codec: boundary-marked token serialization.
//
// A flat scalar list encodes to "| tok | tok |" (empty list: "||"), where each
// token is a type sigil plus the rendered element, e.g. ["novel", 42] becomes
// "| s:novel | i:42 |". The point of the markers is that membership of one
// element can be tested with a plain substring search for "| tok |" against
// the stored bytes, no deserialization needed. Pipes and backslashes inside an
// element are escaped to "\p" and "\\" so no literal '|' ever appears inside a
// token; every '|' in the encoding is a real element boundary, which rules out
// false positives across boundaries ("| at |" cannot match inside "| cat |").

const (
	arrayOpen  = "| "
	arrayClose = " |"
	arraySep   = " | "
	arrayEmpty = "||"
)

func arrayCodec() Codec {
	return Codec{
		Encode: func(_ typedcol.Column, v any) ([]byte, error) {
			elems, err := flatElements(v)
			if err != nil {
				return nil, err
			}
			if len(elems) == 0 {
				return []byte(arrayEmpty), nil
			}
			toks := make([]string, len(elems))
			for i, el := range elems {
				toks[i] = elementToken(el)
			}
			return []byte(arrayOpen + strings.Join(toks, arraySep) + arrayClose), nil
		},
		Decode: func(_ typedcol.Column, b []byte) (any, error) {
			return decodeArray(b)
		},
		Validate: func(_ typedcol.Column, v any) error {
			_, err := flatElements(v)
			return err
		},
	}
}

// NormalizeScalar canonicalizes an array element: integer widths collapse to
// int64, float widths to float64. Containers are rejected with
// ErrInvalidArrayShape, anything else unrepresentable with
// ErrUnsupportedValueKind.
func NormalizeScalar(v any) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil array element", ErrUnsupportedValueKind)
	}
	if x, ok := asInt64(v); ok {
		return x, nil
	}
	if x, ok := asFloat64(v); ok {
		return x, nil
	}
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		return x, nil
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return nil, fmt.Errorf("%w: nested %T", ErrInvalidArrayShape, v)
	default:
		return nil, fmt.Errorf("%w: %T as array element", ErrUnsupportedValueKind, v)
	}
}

// NormalizeArray normalizes any accepted list shape into a flat []any of
// canonical scalars, rejecting nested and associative inputs. The record
// layer stores array columns in this form.
func NormalizeArray(v any) ([]any, error) {
	return flatElements(v)
}

// flatElements normalizes v into a flat []any of canonical scalars.
func flatElements(v any) ([]any, error) {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, el := range x {
			n, err := NormalizeScalar(el)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case []string:
		out := make([]any, len(x))
		for i, el := range x {
			out[i] = el
		}
		return out, nil
	case []byte:
		return nil, fmt.Errorf("%w: raw bytes are not a scalar list", ErrUnsupportedValueKind)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			n, err := NormalizeScalar(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case reflect.Map:
		return nil, fmt.Errorf("%w: associative %T", ErrInvalidArrayShape, v)
	default:
		return nil, fmt.Errorf("%w: want a scalar list, got %T", ErrUnsupportedValueKind, v)
	}
}

// ArrayElementPattern returns the boundary-marked byte pattern whose presence
// in a stored array encoding proves membership of elem. This is what the
// predicate layer embeds in SUBSTRING_MATCH fragments.
func ArrayElementPattern(elem any) ([]byte, error) {
	n, err := NormalizeScalar(elem)
	if err != nil {
		return nil, err
	}
	return []byte(arrayOpen + elementToken(n) + arrayClose), nil
}

// elementToken renders a canonical scalar as its sigil-tagged, escaped token.
func elementToken(v any) string {
	switch x := v.(type) {
	case string:
		return "s:" + escapeToken(x)
	case int64:
		return "i:" + strconv.FormatInt(x, 10)
	case float64:
		return "f:" + strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return "b:" + strconv.FormatBool(x)
	default:
		// NormalizeScalar guarantees this is unreachable.
		panic(fmt.Sprintf("codec: non-canonical array element %T", v))
	}
}

func escapeToken(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "|", `\p`)
}

func unescapeToken(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		i++
		if i >= len(s) {
			return "", fmt.Errorf("%w: dangling escape", ErrCorruptEncoding)
		}
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case 'p':
			b.WriteByte('|')
		default:
			return "", fmt.Errorf("%w: unknown escape \\%c", ErrCorruptEncoding, s[i])
		}
	}
	return b.String(), nil
}

func decodeArray(b []byte) ([]any, error) {
	s := string(b)
	if s == arrayEmpty {
		return []any{}, nil
	}
	if len(s) < len(arrayOpen)+len(arrayClose) ||
		!strings.HasPrefix(s, arrayOpen) || !strings.HasSuffix(s, arrayClose) {
		return nil, fmt.Errorf("%w: missing array boundary markers", ErrCorruptEncoding)
	}
	body := s[len(arrayOpen) : len(s)-len(arrayClose)]

	parts := strings.Split(body, arraySep)
	out := make([]any, 0, len(parts))
	for _, tok := range parts {
		el, err := decodeToken(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

func decodeToken(tok string) (any, error) {
	if len(tok) < 2 || tok[1] != ':' {
		return nil, fmt.Errorf("%w: malformed array token %q", ErrCorruptEncoding, tok)
	}
	sigil, raw := tok[0], tok[2:]
	switch sigil {
	case 's':
		return unescapeToken(raw)
	case 'i':
		x, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad int token %q", ErrCorruptEncoding, raw)
		}
		return x, nil
	case 'f':
		x, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad float token %q", ErrCorruptEncoding, raw)
		}
		return x, nil
	case 'b':
		x, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: bad bool token %q", ErrCorruptEncoding, raw)
		}
		return x, nil
	default:
		return nil, fmt.Errorf("%w: unknown token sigil %q", ErrCorruptEncoding, sigil)
	}
}
