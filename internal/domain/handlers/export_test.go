package handlers

// CompareVersions exports compareVersions for testing.
var CompareVersions = compareVersions //nolint:gochecknoglobals // test export

// HighestVersion exports highestVersion for testing.
var HighestVersion = highestVersion //nolint:gochecknoglobals // test export
