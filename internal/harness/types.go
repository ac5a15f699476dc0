package harness

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every assertion held.
	Pass bool `json:"pass"`

	// Expression is the printed compiled expression, empty when
	// compilation failed.
	Expression string `json:"expression,omitempty"`

	// Fingerprint is the content hash of the decoded filter.
	Fingerprint string `json:"fingerprint,omitempty"`

	// Matches lists the names of matching records in record order.
	Matches []string `json:"matches"`

	// CompileError is the compilation error, if any.
	CompileError string `json:"compile_error,omitempty"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Matches: []string{},
		Errors:  []string{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
