package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

// errNothingToApply means every project already declared the target versions.
var errNothingToApply = errors.New("nothing to apply")

// instancePlan is the analysis of one declaring project.
type instancePlan struct {
	instance entities.DependencyInstance
	analysis entities.AnalysisResult
}

// moves returns the dependencies the Update Worker must move for this
// project. Without an explicit list only the analyzed dependency moves.
func (p instancePlan) moves() []entities.Dependency {
	if len(p.analysis.UpdatedDependencies) > 0 {
		return p.analysis.UpdatedDependencies
	}
	return []entities.Dependency{{
		Name:         p.instance.Dependency.Name,
		Version:      p.analysis.UpdatedVersion,
		IsTransitive: !p.instance.Dependency.IsReportable(),
	}}
}

// dependencyPlan is the analysis of one dependency name inside a unit.
type dependencyPlan struct {
	name      string
	target    string
	instances []instancePlan
}

// unitResult is the captured change set of one unit.
type unitResult struct {
	files    []entities.DependencyFile
	snapshot Snapshot
}

// candidateInstances resolves the instances of name a handler works on.
func candidateInstances(hc *Context, name string, includeTransitive bool) []entities.DependencyInstance {
	instances := hc.Discovery.FindInstances(name)
	if includeTransitive {
		return instances
	}

	var direct []entities.DependencyInstance
	for _, instance := range instances {
		if instance.Dependency.IsReportable() {
			direct = append(direct, instance)
		}
	}
	return direct
}

// planDependency analyzes every candidate instance of name. Instances that
// cannot update, or whose target is ignored, are skipped. A nil plan means
// that no instance can update.
func planDependency(
	ctx context.Context,
	hc *Context,
	tag, name string,
	instances []entities.DependencyInstance,
) (*dependencyPlan, error) {
	plan := &dependencyPlan{name: name}
	var targets []string
	var errs []error

	for _, instance := range instances {
		analysis, err := hc.Analyzer.Analyze(ctx, hc.RepoRoot, hc.Discovery, instance.Dependency)
		if err != nil {
			logger.Errorf("[%s] Failed to analyze %s in %s: %v", tag, instance.Dependency, instance.Project.FilePath, err)
			errs = append(errs, fmt.Errorf("%w: %s in %s: %w", entities.ErrAnalyzeFailed, name, instance.Project.FilePath, err))
			continue
		}
		if !analysis.CanUpdate {
			logger.Infof("[%s] %s cannot be updated in %s", tag, instance.Dependency, instance.Project.FilePath)
			continue
		}
		if hc.IsIgnored(name, analysis.UpdatedVersion) {
			logger.Infof("[%s] Ignoring %s@%s in %s", tag, name, analysis.UpdatedVersion, instance.Project.FilePath)
			continue
		}

		logger.Debugf("[%s] %s can move to %s in %s", tag, instance.Dependency, analysis.UpdatedVersion, instance.Project.FilePath)
		plan.instances = append(plan.instances, instancePlan{instance: instance, analysis: analysis})
		targets = append(targets, analysis.UpdatedVersion)
	}

	if len(plan.instances) == 0 {
		if len(errs) > 0 {
			return nil, errors.Join(errs...)
		}
		return nil, nil //nolint:nilnil // a nil plan means no update is possible
	}
	plan.target = highestVersion(targets)
	return plan, nil
}

// planDependencies plans every name of a unit in order. Names without
// candidates are skipped; analyze errors are collected.
func planDependencies(
	ctx context.Context,
	hc *Context,
	tag string,
	names []string,
	candidates func(name string) []entities.DependencyInstance,
) ([]*dependencyPlan, bool, error) {
	var plans []*dependencyPlan
	var errs []error
	anyCandidate := false

	for _, name := range names {
		instances := candidates(name)
		if len(instances) == 0 {
			continue
		}
		anyCandidate = true

		plan, err := planDependency(ctx, hc, tag, name, instances)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if plan != nil {
			plans = append(plans, plan)
		}
	}
	return plans, anyCandidate, errors.Join(errs...)
}

// applyPlans calls the Update Worker once per declaring project and move,
// in discovery order, and captures the modified files by diffing the
// workspace against a snapshot taken beforehand.
func applyPlans(ctx context.Context, hc *Context, tag string, plans []*dependencyPlan) (*unitResult, error) {
	snapshot, err := hc.Workspace.Snapshot()
	if err != nil {
		return nil, err
	}

	expected := false
	var errs []error
	for _, plan := range plans {
		for _, planned := range plan.instances {
			for _, move := range planned.moves() {
				called, updateErr := applyMove(ctx, hc, tag, planned.instance, move)
				expected = expected || called
				if updateErr != nil {
					errs = append(errs, updateErr)
				}
			}
		}
	}

	files, err := hc.Workspace.Diff(snapshot)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		switch {
		case len(errs) > 0:
			return nil, errors.Join(errs...)
		case expected:
			return nil, fmt.Errorf(
				"%w: updating %s left every file unchanged",
				entities.ErrInconsistentState, strings.Join(planNames(plans), ", "),
			)
		default:
			return nil, errNothingToApply
		}
	}

	if len(errs) > 0 {
		logger.Warnf("[%s] Continuing with a partial update: %v", tag, errors.Join(errs...))
	}
	return &unitResult{files: files, snapshot: snapshot}, nil
}

// applyMove runs one Update Worker call unless the project already declares
// the target version. It reports whether the worker was called.
func applyMove(
	ctx context.Context,
	hc *Context,
	tag string,
	instance entities.DependencyInstance,
	move entities.Dependency,
) (bool, error) {
	projectPath := hc.Discovery.ProjectPath(instance.Project)
	previous, declared := projectVersion(instance.Project, move.Name)
	if declared && sameVersion(previous, move.Version) {
		logger.Debugf("[%s] %s already at %s in %s", tag, move.Name, move.Version, projectPath)
		return false, nil
	}
	if !declared && move.Name == instance.Dependency.Name {
		previous = instance.Dependency.Version
	}

	result, err := hc.Updater.Update(ctx, entities.UpdateRequest{
		RepoRoot:        hc.RepoRoot,
		ProjectPath:     projectPath,
		DependencyName:  move.Name,
		PreviousVersion: previous,
		NewVersion:      move.Version,
		IsTransitive:    move.IsTransitive,
	})
	if err != nil {
		logger.Errorf("[%s] Failed to update %s to %s in %s: %v", tag, move.Name, move.Version, projectPath, err)
		return true, fmt.Errorf("%w: %s in %s: %w", entities.ErrUpdateFailed, move.Name, projectPath, err)
	}

	if result.IsNoOp() {
		logger.Infof("[%s] %s@%s already satisfied in %s", tag, move.Name, move.Version, projectPath)
	} else {
		logger.Infof("[%s] Applied %d operation(s) for %s@%s in %s", tag, len(result.UpdateOperations), move.Name, move.Version, projectPath)
	}
	return true, nil
}

func projectVersion(project entities.Project, name string) (string, bool) {
	for _, dep := range project.Dependencies {
		if dep.Name == name {
			return dep.Version, true
		}
	}
	return "", false
}

// changesOf describes the plans as dependency changes, in plan order.
func changesOf(discovery *entities.WorkspaceDiscovery, plans []*dependencyPlan) []entities.DependencyChange {
	changes := make([]entities.DependencyChange, 0, len(plans))
	for _, plan := range plans {
		change := entities.DependencyChange{Name: plan.name, Version: plan.target}
		for i, planned := range plan.instances {
			if i == 0 {
				change.PreviousVersion = planned.instance.Dependency.Version
				change.IsTransitive = !planned.instance.Dependency.IsReportable()
			}
			change.Occurrences = append(change.Occurrences, entities.DependencyOccurrence{
				File:            discovery.ProjectPath(planned.instance.Project),
				PreviousVersion: planned.instance.Dependency.Version,
			})
		}
		changes = append(changes, change)
	}
	return changes
}

func planNames(plans []*dependencyPlan) []string {
	names := make([]string, 0, len(plans))
	for _, plan := range plans {
		names = append(names, plan.name)
	}
	return names
}

// unitFailure turns an apply error into the decision for the unit.
func unitFailure(tag string, names []string, err error) entities.Decision {
	if errors.Is(err, errNothingToApply) {
		logger.Infof("[%s] %s already at the target version everywhere", tag, strings.Join(names, ", "))
		return entities.NoAction(names, nil)
	}
	if errors.Is(err, entities.ErrInconsistentState) {
		logger.Warnf("[%s] %v", tag, err)
	}
	return entities.NoAction(names, err)
}

// refreshed picks between update and recreate for a refreshed PR.
func refreshed(
	names, closedNames []string,
	group string,
	pinned []entities.PullRequestDependency,
	changes []entities.DependencyChange,
	files []entities.DependencyFile,
) entities.Decision {
	decision := entities.Decision{
		Kind:            entities.DecisionUpdate,
		DependencyNames: names,
		Group:           group,
		Changes:         changes,
		UpdatedFiles:    files,
	}
	for _, change := range changes {
		version, ok := pinnedVersion(pinned, change.Name)
		if !ok || !sameVersion(version, change.Version) {
			decision.Kind = entities.DecisionRecreate
			decision.Reason = entities.CloseReasonDependenciesChanged
			decision.ClosedNames = closedNames
			break
		}
	}
	return decision
}

// created builds a create decision for a captured unit.
func created(
	names []string,
	group string,
	changes []entities.DependencyChange,
	files []entities.DependencyFile,
) entities.Decision {
	return entities.Decision{
		Kind:            entities.DecisionCreate,
		DependencyNames: names,
		Group:           group,
		Changes:         changes,
		UpdatedFiles:    files,
	}
}
