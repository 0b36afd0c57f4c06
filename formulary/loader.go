package formulary

// Loader loads formulary tables from their configured source. It exists so
// the scheduler can take the load step as an injected dependency.
type Loader struct{}

// NewLoader creates a formulary loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load returns the table from path when set, or the built-in default table
func (l *Loader) Load(path string) (*Table, error) {
	return Load(path)
}
