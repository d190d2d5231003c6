package jsonlog

import (
	stderrs "errors"
	"fmt"
	"reflect"
	"strings"

	smerrors "github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
)

// parseLevel parses a string log level into a zerolog.Level.
// An empty string is rejected rather than mapped to zerolog.NoLevel.
func parseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == emptyString {
		return zerolog.NoLevel, stderrs.New("empty log level")
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.NoLevel, err
	}
	return l, nil
}

// buildErrorChain walks an error's cause chain and returns:
//   - chain: outermost -> innermost error messages
//   - ops: operation identifiers for DetailedError links ("" if not available)
//   - root: the innermost error message
//   - rootOp: the innermost operation identifier if available
//
// The traversal prefers Station-Manager DetailedError.Cause() and then
// falls back to stdlib errors.Unwrap. It guards against excessive depth
// and repeated messages to avoid cycles.
func buildErrorChain(err error) (chain []string, ops []string, root string, rootOp string) {
	const maxDepth = 50
	visited := 0
	seen := map[string]bool{}

	for err != nil && visited < maxDepth {
		visited++

		if dErr, ok := smerrors.AsDetailedError(err); ok && dErr != nil {
			chain = append(chain, dErr.Error())
			ops = append(ops, string(dErr.Op()))
			err = dErr.Cause()
			continue
		}

		msg := err.Error()
		// avoid infinite loops if messages repeat due to unusual cycles
		if seen[msg] {
			break
		}
		seen[msg] = true
		chain = append(chain, msg)
		ops = append(ops, "")
		err = stderrs.Unwrap(err)
	}

	if len(chain) > 0 {
		root = chain[len(chain)-1]
	}
	if len(ops) > 0 {
		rootOp = ops[len(ops)-1]
	}
	return
}

// joinChain returns a single string for the error chain separated by " -> ".
func joinChain(chain []string) string {
	if len(chain) == 0 {
		return ""
	}
	return strings.Join(chain, " -> ")
}

// describeError renders err as "<qualified type>: <message>" followed by one
// "Caused by: <message>" line per wrapped cause. A blank message leaves only
// the type name.
func describeError(err error) string {
	if err == nil {
		return emptyString
	}
	var sb strings.Builder
	sb.WriteString(errorTypeName(err))
	if msg := err.Error(); msg != emptyString {
		sb.WriteString(": ")
		sb.WriteString(msg)
	}
	chain, _, _, _ := buildErrorChain(err)
	for i := 1; i < len(chain); i++ {
		sb.WriteString("\nCaused by: ")
		sb.WriteString(chain[i])
	}
	return sb.String()
}

// errorTypeName returns the package-qualified name of err's type with pointer
// indirection removed, e.g. "errors.errorString". Unnamed types fall back to %T.
func errorTypeName(err error) string {
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == emptyString || t.PkgPath() == emptyString {
		return fmt.Sprintf("%T", err)
	}
	return t.PkgPath() + "." + t.Name()
}
