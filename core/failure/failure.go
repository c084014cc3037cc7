package failure

import (
	"fmt"
	"runtime"

	"github.com/pkg/errors"
)

// Named is an error that you can read a name from
type Named interface {
	Name() string
}

// WithStackTrace is an error that you can read a stack trace from
type WithStackTrace interface {
	Stack() string
}

type Failure interface {
	error
	Named
}

type NamedWithStackTrace interface {
	Named
	WithStackTrace
}

type namedWithStackTrace struct {
	name  string
	stack errors.StackTrace
}

func (n namedWithStackTrace) Name() string {
	return n.name
}

func (n namedWithStackTrace) Stack() string {
	return fmt.Sprintf("%+v", n.stack)
}

// NamedWithCurrentStackTrace captures the stack of the caller's caller, so
// constructors that embed the result report the frame that created the error.
func NamedWithCurrentStackTrace(name string) NamedWithStackTrace {
	const depth = 32

	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	f := make(errors.StackTrace, n)
	for i := 0; i < n; i++ {
		f[i] = errors.Frame(pcs[i])
	}

	return namedWithStackTrace{name, f}
}

// Name returns the name of err if it (or an error it wraps) is [Named],
// otherwise "Error".
func Name(err error) string {
	var named Named
	if errors.As(err, &named) {
		return named.Name()
	}
	return "Error"
}
