package endpoint

import (
	"errors"
	"fmt"
	"maps"
	"runtime/debug"
	"strings"
)

// ErrorInfo is the normalized form of a failed request kept in PathState.
type ErrorInfo struct {
	Name    string         `json:"name"`
	Message string         `json:"message"`
	Stack   string         `json:"stack,omitempty"`
	Fields  map[string]any `json:"fields,omitempty"`
}

func (e *ErrorInfo) Error() string {
	if e.Name == "" {
		return e.Message
	}
	return e.Name + ": " + e.Message
}

// RequestError wraps a request call that failed without returning an
// error value, such as a panic.
type RequestError struct {
	Value any
	stack string
}

func newRequestError(value any) *RequestError {
	return &RequestError{Value: value, stack: string(debug.Stack())}
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Value)
}

func (e *RequestError) Name() string  { return "RequestError" }
func (e *RequestError) Stack() string { return e.stack }

// NormalizeError projects err into an ErrorInfo. Name, Stack and Fields are
// taken from the first error in the wrap chain that provides them.
func NormalizeError(err error) *ErrorInfo {
	if err == nil {
		return nil
	}
	if info, ok := err.(*ErrorInfo); ok {
		clone := *info
		clone.Fields = maps.Clone(info.Fields)
		return &clone
	}

	info := &ErrorInfo{Name: typeName(err), Message: err.Error()}

	var named interface{ Name() string }
	if errors.As(err, &named) {
		info.Name = named.Name()
	}
	var stacked interface{ Stack() string }
	if errors.As(err, &stacked) {
		info.Stack = stacked.Stack()
	}
	var fielded interface{ Fields() map[string]any }
	if errors.As(err, &fielded) {
		info.Fields = maps.Clone(fielded.Fields())
	}
	return info
}

func typeName(err error) string {
	name := strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
	if name == "errors.errorString" || name == "fmt.wrapError" || name == "fmt.wrapErrors" {
		return "Error"
	}
	return name
}
