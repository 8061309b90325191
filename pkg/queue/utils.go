package queue

import (
	"fmt"
	"reflect"
	"strings"
)

// taskNameFor derives a stable task name from the payload type, e.g.
// "router.EmailJob". Pointer indirection is stripped first.
func taskNameFor[T any]() string {
	var v T
	return taskNameOf(reflect.TypeOf(v))
}

// taskNameOf is the value-based counterpart used by the enqueuer.
func taskNameOf(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	pkg := t.PkgPath()
	if idx := strings.LastIndex(pkg, "/"); idx >= 0 {
		pkg = pkg[idx+1:]
	}
	if pkg == "" {
		return t.Name()
	}
	return fmt.Sprintf("%s.%s", pkg, t.Name())
}
