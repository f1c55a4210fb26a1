package errors

import "fmt"

// Validation collects human-readable problems for a single input and turns
// them into one coded *Error. The zero value is not usable; use NewValidation.
//
// Validation never stops at the first problem: callers add everything they
// find so users can fix the whole input in one pass.
type Validation struct {
	code     Code
	message  string
	problems []string
}

// NewValidation starts a problem list reported under code with the given summary.
func NewValidation(code Code, message string) *Validation {
	return &Validation{code: code, message: message}
}

// Add records a problem.
func (v *Validation) Add(problem string) {
	v.problems = append(v.problems, problem)
}

// Addf records a formatted problem.
func (v *Validation) Addf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

// Check records problem when cond is false and reports cond.
func (v *Validation) Check(cond bool, problem string) bool {
	if !cond {
		v.Add(problem)
	}
	return cond
}

// OK reports whether no problems have been recorded.
func (v *Validation) OK() bool {
	return len(v.problems) == 0
}

// Err returns nil when no problems were recorded, otherwise an *Error
// whose Problems field lists every recorded problem in order.
func (v *Validation) Err() error {
	if v.OK() {
		return nil
	}
	problems := make([]string, len(v.problems))
	copy(problems, v.problems)
	return &Error{
		Code:     v.code,
		Message:  v.message,
		Problems: problems,
	}
}
