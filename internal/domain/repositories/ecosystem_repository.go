package repositories

// EcosystemRepository bundles the three workers of one package manager.
// Each implementation owns its native tooling; the engine only sees the
// one-method capabilities.
type EcosystemRepository interface {
	// Name returns the package manager identifier (e.g. "terraform", "nuget").
	Name() string

	DiscoveryRepository
	AnalyzeRepository
	UpdateRepository
}
