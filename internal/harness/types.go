package harness

import (
	"github.com/roach88/malviz/internal/clean"
	"github.com/roach88/malviz/internal/join"
	"github.com/roach88/malviz/internal/pipeline"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true if every assertion held.
	Pass bool `json:"pass"`

	RunID string `json:"run_id"`

	// Errors holds one message per failed assertion.
	Errors []string `json:"errors,omitempty"`

	// Summary is nil when the run had too little data to summarise.
	Summary *pipeline.Summary `json:"summary,omitempty"`

	Join    join.Stats              `json:"join"`
	Reports map[string]clean.Report `json:"reports"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Errors:  []string{},
		Reports: make(map[string]clean.Report),
	}
}

// AddError records a failed assertion and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
