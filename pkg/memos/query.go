package memos

import (
	"fmt"
	"strconv"
)

/*
Query holds URL query parameters. Values may be strings, integers, booleans
or pointers to those. A nil value, or a nil pointer, is left out of the URL
entirely rather than being sent as an empty string.
*/
type Query map[string]any

// Values renders the query into the flat string map the transport sends.
func (q Query) Values() map[string]string {
	out := make(map[string]string, len(q))

	for key, value := range q {
		if rendered, ok := renderQueryValue(value); ok {
			out[key] = rendered
		}
	}

	return out
}

func renderQueryValue(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	case int:
		return strconv.Itoa(v), true
	case *int:
		if v == nil {
			return "", false
		}
		return strconv.Itoa(*v), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case *bool:
		if v == nil {
			return "", false
		}
		return strconv.FormatBool(*v), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprint(v), true
	}
}
