package testutil

// ConstantRunID returns the same run id on every call, so repeated runs
// over the same data collide in the store the way re-ingestion does.
//
// Thread-safety: ConstantRunID is stateless and safe for concurrent use.
type ConstantRunID struct {
	id string
}

// NewConstantRunID creates a generator for id. If id is empty, Generate
// returns "run-test-default".
func NewConstantRunID(id string) *ConstantRunID {
	if id == "" {
		id = "run-test-default"
	}
	return &ConstantRunID{id: id}
}

// Generate returns the fixed run id.
func (g *ConstantRunID) Generate() string {
	return g.id
}
