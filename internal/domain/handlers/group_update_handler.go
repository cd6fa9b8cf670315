package handlers

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

const operationGroupUpdateAllVersions = "group_update_all_versions"

// GroupUpdateHandler opens at most one PR per dependency group, then one PR
// per dependency left outside every group.
type GroupUpdateHandler struct{}

// NewGroupUpdateHandler creates the grouped update handler.
func NewGroupUpdateHandler() *GroupUpdateHandler {
	return &GroupUpdateHandler{}
}

func (it *GroupUpdateHandler) Name() string             { return operationGroupUpdateAllVersions }
func (it *GroupUpdateHandler) IncludesTransitive() bool { return false }

func (it *GroupUpdateHandler) Handle(ctx context.Context, hc *Context) []entities.Decision {
	names := hc.Discovery.DirectDependencyNames()
	claimed := make(map[string]struct{}, len(names))
	var decisions []entities.Decision

	for _, group := range hc.Job.DependencyGroups {
		members := groupMembers(newGroupRule(group), names, claimed)
		if len(members) == 0 {
			logger.Infof("[%s] Group %q matches no dependency", it.Name(), group.Name)
			continue
		}
		logger.Infof("[%s] Group %q has %d member(s)", it.Name(), group.Name, len(members))
		decisions = append(decisions, createUnit(ctx, hc, it.Name(), members, group.Name, directCandidates(hc)))
	}

	for _, name := range names {
		if _, ok := claimed[name]; ok {
			continue
		}
		decisions = append(decisions, createUnit(ctx, hc, it.Name(), []string{name}, "", directCandidates(hc)))
	}
	return decisions
}

// groupMembers returns the names matched by rule, in discovery order. When
// claimed is not nil, matched names are recorded and names already claimed
// by an earlier group are skipped.
func groupMembers(rule groupRule, names []string, claimed map[string]struct{}) []string {
	var members []string
	for _, name := range names {
		if _, taken := claimed[name]; taken {
			continue
		}
		if !rule.matches(name) {
			continue
		}
		members = append(members, name)
		if claimed != nil {
			claimed[name] = struct{}{}
		}
	}
	return members
}
