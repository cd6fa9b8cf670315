package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
	"github.com/rios0rios0/updatebot/internal/domain/repositories"
	"github.com/rios0rios0/updatebot/internal/infrastructure/repositories/branching"
)

const (
	providerName = "github"
	perPage      = 100
	blobMode     = "100644"
	blobType     = "blob"
)

// MessageSinkRepository applies PR messages to a GitHub repository: it
// commits the updated files on a branch, opens, refreshes and closes PRs.
type MessageSinkRepository struct {
	client   *gh.Client
	repo     entities.Repository
	branches branching.Namer
}

// NewMessageSinkRepository creates a GitHub sink for the job's repository.
func NewMessageSinkRepository(
	settings entities.SinkSettings,
	job *entities.Job,
) (repositories.MessageSinkRepository, error) {
	client := gh.NewClient(nil)
	if settings.Token != "" {
		client = client.WithAuthToken(settings.Token)
	}
	if settings.BaseURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(settings.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base URL %q: %w", settings.BaseURL, err)
		}
		client.BaseURL = baseURL
	}
	return NewMessageSinkRepositoryWith(client, job)
}

// NewMessageSinkRepositoryWith creates a GitHub sink over the given client.
func NewMessageSinkRepositoryWith(client *gh.Client, job *entities.Job) (*MessageSinkRepository, error) {
	owner, name, ok := strings.Cut(job.Source.Repo, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("job source repo %q is not in owner/name form", job.Source.Repo)
	}
	repo := entities.Repository{
		ID:            job.Source.Repo,
		Name:          name,
		Organization:  owner,
		DefaultBranch: job.Source.Branch,
		ProviderName:  providerName,
	}
	return &MessageSinkRepository{client: client, repo: repo, branches: branching.NewNamer(job)}, nil
}

// Send applies the messages in order and stops at the first failure.
func (s *MessageSinkRepository) Send(ctx context.Context, messages []entities.OutputMessage) error {
	for _, message := range messages {
		if err := s.apply(ctx, message); err != nil {
			return fmt.Errorf("failed to apply %s: %w", message.Type(), err)
		}
	}
	return nil
}

func (s *MessageSinkRepository) apply(ctx context.Context, message entities.OutputMessage) error {
	switch m := message.(type) {
	case entities.CreatePullRequest:
		return s.createPullRequest(ctx, m)
	case entities.UpdatePullRequest:
		return s.updatePullRequest(ctx, m)
	case entities.ClosePullRequest:
		return s.closePullRequest(ctx, m)
	case entities.RecordUpdateJobError:
		logger.Errorf("[%s] Update job error %s: %v", providerName, m.ErrorType, m.ErrorDetails)
	case entities.UpdatedDependencyList:
		logger.Infof("[%s] %d dependencies in %d files", providerName, len(m.Dependencies), len(m.DependencyFiles))
	case entities.IncrementMetric:
		logger.Debugf("[%s] Metric %s %v", providerName, m.Metric, m.Tags)
	case entities.MarkAsProcessed:
		logger.Infof("[%s] Processed %s/%s at %s", providerName, s.repo.Organization, s.repo.Name, m.BaseCommitSha)
	default:
		logger.Warnf("[%s] Ignoring unknown message %s", providerName, message.Type())
	}
	return nil
}

func (s *MessageSinkRepository) createPullRequest(ctx context.Context, message entities.CreatePullRequest) error {
	branch := s.branches.ForCreate(message)
	sha, err := s.commitFiles(ctx, message.BaseCommitSha, message.CommitMessage, message.UpdatedDependencyFiles)
	if err != nil {
		return err
	}
	if refErr := s.writeBranch(ctx, branch, sha); refErr != nil {
		return refErr
	}

	target, err := s.targetBranch(ctx)
	if err != nil {
		return err
	}
	pr, err := s.openPullRequest(ctx, entities.PullRequestInput{
		SourceBranch: "refs/heads/" + branch,
		TargetBranch: target,
		Title:        message.PrTitle,
		Description:  message.PrBody,
	})
	if err != nil {
		return err
	}

	logger.Infof("[%s] Created PR #%d: %s", providerName, pr.ID, pr.URL)
	return nil
}

func (s *MessageSinkRepository) updatePullRequest(ctx context.Context, message entities.UpdatePullRequest) error {
	pr, err := s.findPullRequest(ctx, s.branches.Prefix(message.DependencyNames, message.DependencyGroup))
	if err != nil {
		return err
	}

	sha, err := s.commitFiles(ctx, message.BaseCommitSha, message.CommitMessage, message.UpdatedDependencyFiles)
	if err != nil {
		return err
	}
	branchRef := "refs/heads/" + pr.GetHead().GetRef()
	if _, _, updateErr := s.client.Git.UpdateRef(ctx, s.repo.Organization, s.repo.Name, &gh.Reference{
		Ref:    &branchRef,
		Object: &gh.GitObject{SHA: &sha},
	}, true); updateErr != nil {
		return fmt.Errorf("failed to force-update %s: %w", branchRef, updateErr)
	}

	if _, _, editErr := s.client.PullRequests.Edit(ctx, s.repo.Organization, s.repo.Name, pr.GetNumber(), &gh.PullRequest{
		Title: gh.String(message.PrTitle),
		Body:  gh.String(message.PrBody),
	}); editErr != nil {
		return fmt.Errorf("failed to edit pull request #%d: %w", pr.GetNumber(), editErr)
	}

	logger.Infof("[%s] Refreshed PR #%d", providerName, pr.GetNumber())
	return nil
}

func (s *MessageSinkRepository) closePullRequest(ctx context.Context, message entities.ClosePullRequest) error {
	pr, err := s.findPullRequest(ctx, s.branches.Prefix(message.DependencyNames, message.DependencyGroup))
	if errors.Is(err, errPullRequestNotFound) {
		logger.Warnf("[%s] No open PR to close for %v", providerName, message.DependencyNames)
		return nil
	}
	if err != nil {
		return err
	}

	comment := branching.CloseComment(message.Reason)
	if _, _, commentErr := s.client.Issues.CreateComment(ctx, s.repo.Organization, s.repo.Name, pr.GetNumber(), &gh.IssueComment{
		Body: &comment,
	}); commentErr != nil {
		return fmt.Errorf("failed to comment on pull request #%d: %w", pr.GetNumber(), commentErr)
	}

	if _, _, editErr := s.client.PullRequests.Edit(ctx, s.repo.Organization, s.repo.Name, pr.GetNumber(), &gh.PullRequest{
		State: gh.String("closed"),
	}); editErr != nil {
		return fmt.Errorf("failed to close pull request #%d: %w", pr.GetNumber(), editErr)
	}

	if _, deleteErr := s.client.Git.DeleteRef(ctx, s.repo.Organization, s.repo.Name, "heads/"+pr.GetHead().GetRef()); deleteErr != nil {
		logger.Warnf("[%s] Failed to delete branch %s: %v", providerName, pr.GetHead().GetRef(), deleteErr)
	}

	logger.Infof("[%s] Closed PR #%d (%s)", providerName, pr.GetNumber(), message.Reason)
	return nil
}

// commitFiles creates a commit on top of base holding the updated files.
func (s *MessageSinkRepository) commitFiles(
	ctx context.Context,
	baseSHA, commitMessage string,
	files []entities.DependencyFile,
) (string, error) {
	owner := s.repo.Organization
	repoName := s.repo.Name

	baseCommit, _, err := s.client.Git.GetCommit(ctx, owner, repoName, baseSHA)
	if err != nil {
		return "", fmt.Errorf("failed to get base commit: %w", err)
	}

	entries := make([]*gh.TreeEntry, 0, len(files))
	for _, file := range files {
		entry := &gh.TreeEntry{
			Path: gh.String(strings.TrimPrefix(file.Path(), "/")),
			Mode: gh.String(blobMode),
			Type: gh.String(blobType),
		}
		if !file.Deleted {
			entry.Content = gh.String(file.Content)
		}
		entries = append(entries, entry)
	}

	newTree, _, err := s.client.Git.CreateTree(ctx, owner, repoName, baseCommit.Tree.GetSHA(), entries)
	if err != nil {
		return "", fmt.Errorf("failed to create tree: %w", err)
	}

	newCommit, _, err := s.client.Git.CreateCommit(
		ctx, owner, repoName,
		&gh.Commit{
			Message: &commitMessage,
			Tree:    newTree,
			Parents: []*gh.Commit{{SHA: &baseSHA}},
		},
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create commit: %w", err)
	}
	return newCommit.GetSHA(), nil
}

// writeBranch points branch at sha, creating it when missing.
func (s *MessageSinkRepository) writeBranch(ctx context.Context, branch, sha string) error {
	branchRef := "refs/heads/" + branch
	reference := &gh.Reference{Ref: &branchRef, Object: &gh.GitObject{SHA: &sha}}

	if _, _, err := s.client.Git.GetRef(ctx, s.repo.Organization, s.repo.Name, branchRef); err == nil {
		if _, _, updateErr := s.client.Git.UpdateRef(ctx, s.repo.Organization, s.repo.Name, reference, true); updateErr != nil {
			return fmt.Errorf("failed to update branch: %w", updateErr)
		}
		return nil
	}

	if _, _, err := s.client.Git.CreateRef(ctx, s.repo.Organization, s.repo.Name, reference); err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}
	return nil
}

func (s *MessageSinkRepository) targetBranch(ctx context.Context) (string, error) {
	if s.repo.DefaultBranch != "" {
		return "refs/heads/" + strings.TrimPrefix(s.repo.DefaultBranch, "refs/heads/"), nil
	}
	repository, _, err := s.client.Repositories.Get(ctx, s.repo.Organization, s.repo.Name)
	if err != nil {
		return "", fmt.Errorf("failed to get repository: %w", err)
	}
	s.repo.DefaultBranch = "refs/heads/" + repository.GetDefaultBranch()
	return s.repo.DefaultBranch, nil
}

func (s *MessageSinkRepository) openPullRequest(
	ctx context.Context,
	input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	sourceBranch := strings.TrimPrefix(input.SourceBranch, "refs/heads/")
	targetBranch := strings.TrimPrefix(input.TargetBranch, "refs/heads/")

	maintainerCanModify := true
	pr, _, err := s.client.PullRequests.Create(
		ctx, s.repo.Organization, s.repo.Name,
		&gh.NewPullRequest{
			Title:               &input.Title,
			Head:                &sourceBranch,
			Base:                &targetBranch,
			Body:                &input.Description,
			MaintainerCanModify: &maintainerCanModify,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}

	return &entities.PullRequest{
		ID:     pr.GetNumber(),
		Title:  pr.GetTitle(),
		URL:    pr.GetHTMLURL(),
		Status: pr.GetState(),
	}, nil
}

var errPullRequestNotFound = errors.New("pull request not found")

// findPullRequest returns the open PR whose head branch starts with prefix.
func (s *MessageSinkRepository) findPullRequest(ctx context.Context, prefix string) (*gh.PullRequest, error) {
	opts := &gh.PullRequestListOptions{
		State:       "open",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	for {
		prs, resp, err := s.client.PullRequests.List(ctx, s.repo.Organization, s.repo.Name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list pull requests: %w", err)
		}
		for _, pr := range prs {
			if strings.HasPrefix(pr.GetHead().GetRef(), prefix) {
				return pr, nil
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return nil, fmt.Errorf("%w: head %s*", errPullRequestNotFound, prefix)
}
