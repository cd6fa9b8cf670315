package entities

// RunOptions holds runtime options of a single job execution.
type RunOptions struct {
	RepoRoot string
	DryRun   bool
}
