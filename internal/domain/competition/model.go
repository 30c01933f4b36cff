package competition

// Competition is static reference data; the reconciliation pipeline
// reads it to scope provider queries and never mutates it.
type Competition struct {
	ID      int64
	RefID   int64
	Name    string
	Slug    string
	Visible bool
}
