package composer

import (
	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

const dependenciesGroup = "dependencies"

// Report builds the dependency-list report: one entry per project
// occurrence, in discovery order. Transitive dependencies are only listed
// when includeTransitive is set and carry no requirement.
func Report(discovery *entities.WorkspaceDiscovery, includeTransitive bool) entities.UpdatedDependencyList {
	report := entities.UpdatedDependencyList{
		Dependencies:    []entities.ReportedDependency{},
		DependencyFiles: discovery.DependencyFiles(),
	}
	if report.DependencyFiles == nil {
		report.DependencyFiles = []string{}
	}

	for _, project := range discovery.Projects {
		file := discovery.ProjectPath(project)
		for _, dep := range project.Dependencies {
			if !dep.IsReportable() && !includeTransitive {
				continue
			}

			requirements := []entities.ReportedRequirement{}
			if dep.IsReportable() {
				requirements = append(requirements, entities.ReportedRequirement{
					Requirement: dep.Version,
					File:        file,
					Groups:      []string{dependenciesGroup},
				})
			}
			report.Dependencies = append(report.Dependencies, entities.ReportedDependency{
				Name:         dep.Name,
				Version:      dep.Version,
				Requirements: requirements,
			})
		}
	}
	return report
}
