package entities

// SecurityAdvisory is a published vulnerability for one dependency name.
type SecurityAdvisory struct {
	DependencyName     string        `json:"dependency-name"     yaml:"dependency-name"`
	AffectedVersions   []Requirement `json:"affected-versions"   yaml:"affected-versions"`
	PatchedVersions    []Requirement `json:"patched-versions"    yaml:"patched-versions"`
	UnaffectedVersions []Requirement `json:"unaffected-versions" yaml:"unaffected-versions"`
}

// AdvisoriesFor returns every advisory that names the given dependency.
func AdvisoriesFor(advisories []SecurityAdvisory, name string) []SecurityAdvisory {
	var matching []SecurityAdvisory
	for _, advisory := range advisories {
		if advisory.DependencyName == name {
			matching = append(matching, advisory)
		}
	}
	return matching
}
