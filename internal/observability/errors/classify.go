package errors

import (
	"context"
	goerrors "errors"
	"reflect"
	"strconv"
	"strings"
)

// statusCoder is implemented by errors that carry an HTTP status from the clinic API.
type statusCoder interface {
	HTTPStatus() int
}

// Classify returns a normalized error type name suitable for tagging metrics/logs.
// HTTP status errors classify as http_<code>; context errors as timeout/canceled.
// Anything else unwraps to the innermost concrete type, converted to snake_case-ish.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var sc statusCoder
	if goerrors.As(err, &sc) {
		return "http_" + strconv.Itoa(sc.HTTPStatus())
	}
	switch {
	case goerrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case goerrors.Is(err, context.Canceled):
		return "canceled"
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	name := strings.ToLower(strings.ReplaceAll(t.String(), "*", ""))
	name = strings.ReplaceAll(name, ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}
