package gitlab

import (
	"context"
	"errors"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"
	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
	"github.com/rios0rios0/updatebot/internal/domain/repositories"
	"github.com/rios0rios0/updatebot/internal/infrastructure/repositories/branching"
)

const (
	providerName = "gitlab"
	perPage      = 100
)

var errMergeRequestNotFound = errors.New("merge request not found")

// MessageSinkRepository applies PR messages to a GitLab project as merge
// requests.
type MessageSinkRepository struct {
	client   *gl.Client
	pid      string
	repo     entities.Repository
	branches branching.Namer
}

// NewMessageSinkRepository creates a GitLab sink for the job's project.
func NewMessageSinkRepository(
	settings entities.SinkSettings,
	job *entities.Job,
) (repositories.MessageSinkRepository, error) {
	var options []gl.ClientOptionFunc
	if settings.BaseURL != "" {
		options = append(options, gl.WithBaseURL(settings.BaseURL))
	}
	client, err := gl.NewClient(settings.Token, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}
	return NewMessageSinkRepositoryWith(client, job)
}

// NewMessageSinkRepositoryWith creates a GitLab sink over the given client.
// The project is the job's "group/subgroup/name" path.
func NewMessageSinkRepositoryWith(client *gl.Client, job *entities.Job) (*MessageSinkRepository, error) {
	pid := strings.Trim(job.Source.Repo, "/")
	slash := strings.LastIndex(pid, "/")
	if slash <= 0 {
		return nil, fmt.Errorf("job source repo %q is not in group/name form", job.Source.Repo)
	}
	return &MessageSinkRepository{
		client:   client,
		pid:      pid,
		branches: branching.NewNamer(job),
		repo: entities.Repository{
			ID:            pid,
			Name:          pid[slash+1:],
			Organization:  pid[:slash],
			DefaultBranch: job.Source.Branch,
			ProviderName:  providerName,
		},
	}, nil
}

// Send applies the messages in order and stops at the first failure.
func (s *MessageSinkRepository) Send(ctx context.Context, messages []entities.OutputMessage) error {
	for _, message := range messages {
		var err error
		switch m := message.(type) {
		case entities.CreatePullRequest:
			err = s.createMergeRequest(ctx, m)
		case entities.UpdatePullRequest:
			err = s.updateMergeRequest(ctx, m)
		case entities.ClosePullRequest:
			err = s.closeMergeRequest(ctx, m)
		case entities.RecordUpdateJobError:
			logger.Errorf("[%s] Update job error %s: %v", providerName, m.ErrorType, m.ErrorDetails)
		default:
			logger.Debugf("[%s] Skipping %s", providerName, message.Type())
		}
		if err != nil {
			return fmt.Errorf("failed to apply %s: %w", message.Type(), err)
		}
	}
	return nil
}

func (s *MessageSinkRepository) createMergeRequest(ctx context.Context, message entities.CreatePullRequest) error {
	branch := s.branches.ForCreate(message)
	if err := s.commit(ctx, branch, message.BaseCommitSha, message.CommitMessage, message.UpdatedDependencyFiles); err != nil {
		return err
	}

	target, err := s.targetBranch(ctx)
	if err != nil {
		return err
	}
	pr, err := s.openMergeRequest(ctx, entities.PullRequestInput{
		SourceBranch: "refs/heads/" + branch,
		TargetBranch: target,
		Title:        message.PrTitle,
		Description:  message.PrBody,
	})
	if err != nil {
		return err
	}

	logger.Infof("[%s] Created MR !%d: %s", providerName, pr.ID, pr.URL)
	return nil
}

func (s *MessageSinkRepository) updateMergeRequest(ctx context.Context, message entities.UpdatePullRequest) error {
	mr, err := s.findMergeRequest(ctx, s.branches.Prefix(message.DependencyNames, message.DependencyGroup))
	if err != nil {
		return err
	}

	if commitErr := s.commit(
		ctx, mr.SourceBranch, message.BaseCommitSha, message.CommitMessage, message.UpdatedDependencyFiles,
	); commitErr != nil {
		return commitErr
	}

	if _, _, updateErr := s.client.MergeRequests.UpdateMergeRequest(
		s.pid, mr.IID,
		&gl.UpdateMergeRequestOptions{
			Title:       gl.Ptr(message.PrTitle),
			Description: gl.Ptr(message.PrBody),
		},
		gl.WithContext(ctx),
	); updateErr != nil {
		return fmt.Errorf("failed to update merge request !%d: %w", mr.IID, updateErr)
	}

	logger.Infof("[%s] Refreshed MR !%d", providerName, mr.IID)
	return nil
}

func (s *MessageSinkRepository) closeMergeRequest(ctx context.Context, message entities.ClosePullRequest) error {
	mr, err := s.findMergeRequest(ctx, s.branches.Prefix(message.DependencyNames, message.DependencyGroup))
	if errors.Is(err, errMergeRequestNotFound) {
		logger.Warnf("[%s] No open MR to close for %v", providerName, message.DependencyNames)
		return nil
	}
	if err != nil {
		return err
	}

	if _, _, noteErr := s.client.Notes.CreateMergeRequestNote(
		s.pid, mr.IID,
		&gl.CreateMergeRequestNoteOptions{Body: gl.Ptr(branching.CloseComment(message.Reason))},
		gl.WithContext(ctx),
	); noteErr != nil {
		return fmt.Errorf("failed to comment on merge request !%d: %w", mr.IID, noteErr)
	}

	if _, _, closeErr := s.client.MergeRequests.UpdateMergeRequest(
		s.pid, mr.IID,
		&gl.UpdateMergeRequestOptions{StateEvent: gl.Ptr("close")},
		gl.WithContext(ctx),
	); closeErr != nil {
		return fmt.Errorf("failed to close merge request !%d: %w", mr.IID, closeErr)
	}

	if _, deleteErr := s.client.Branches.DeleteBranch(s.pid, mr.SourceBranch, gl.WithContext(ctx)); deleteErr != nil {
		logger.Warnf("[%s] Failed to delete branch %s: %v", providerName, mr.SourceBranch, deleteErr)
	}

	logger.Infof("[%s] Closed MR !%d (%s)", providerName, mr.IID, message.Reason)
	return nil
}

// commit writes files on branch, starting over from baseSHA. An existing
// branch is overwritten.
func (s *MessageSinkRepository) commit(
	ctx context.Context,
	branch, baseSHA, commitMessage string,
	files []entities.DependencyFile,
) error {
	actions := make([]*gl.CommitActionOptions, 0, len(files))
	for _, file := range files {
		filePath := strings.TrimPrefix(file.Path(), "/")
		action := gl.FileUpdate
		switch {
		case file.Deleted:
			action = gl.FileDelete
		case !s.hasFile(ctx, filePath, baseSHA):
			action = gl.FileCreate
		}
		content := file.Content
		actions = append(actions, &gl.CommitActionOptions{
			Action:   &action,
			FilePath: &filePath,
			Content:  &content,
		})
	}

	_, _, err := s.client.Commits.CreateCommit(
		s.pid,
		&gl.CreateCommitOptions{
			Branch:        gl.Ptr(branch),
			StartSHA:      gl.Ptr(baseSHA),
			CommitMessage: gl.Ptr(commitMessage),
			Actions:       actions,
			Force:         gl.Ptr(true),
		},
		gl.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to create commit: %w", err)
	}
	return nil
}

func (s *MessageSinkRepository) hasFile(ctx context.Context, filePath, ref string) bool {
	_, _, err := s.client.RepositoryFiles.GetRawFile(
		s.pid, filePath,
		&gl.GetRawFileOptions{Ref: gl.Ptr(ref)},
		gl.WithContext(ctx),
	)
	return err == nil
}

func (s *MessageSinkRepository) targetBranch(ctx context.Context) (string, error) {
	if s.repo.DefaultBranch != "" {
		return "refs/heads/" + strings.TrimPrefix(s.repo.DefaultBranch, "refs/heads/"), nil
	}
	project, _, err := s.client.Projects.GetProject(s.pid, nil, gl.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to get project: %w", err)
	}
	s.repo.DefaultBranch = "refs/heads/" + project.DefaultBranch
	return s.repo.DefaultBranch, nil
}

func (s *MessageSinkRepository) openMergeRequest(
	ctx context.Context,
	input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	sourceBranch := strings.TrimPrefix(input.SourceBranch, "refs/heads/")
	targetBranch := strings.TrimPrefix(input.TargetBranch, "refs/heads/")

	mr, _, err := s.client.MergeRequests.CreateMergeRequest(
		s.pid,
		&gl.CreateMergeRequestOptions{
			Title:              gl.Ptr(input.Title),
			Description:        gl.Ptr(input.Description),
			SourceBranch:       gl.Ptr(sourceBranch),
			TargetBranch:       gl.Ptr(targetBranch),
			RemoveSourceBranch: gl.Ptr(true),
		},
		gl.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create merge request: %w", err)
	}

	return &entities.PullRequest{
		ID:     int(mr.IID),
		Title:  mr.Title,
		URL:    mr.WebURL,
		Status: mr.State,
	}, nil
}

// findMergeRequest returns the open MR whose source branch starts with prefix.
func (s *MessageSinkRepository) findMergeRequest(ctx context.Context, prefix string) (*gl.BasicMergeRequest, error) {
	opts := &gl.ListProjectMergeRequestsOptions{
		ListOptions: gl.ListOptions{PerPage: perPage},
		State:       gl.Ptr("opened"),
	}

	for {
		mrs, resp, err := s.client.MergeRequests.ListProjectMergeRequests(s.pid, opts, gl.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list merge requests: %w", err)
		}
		for _, mr := range mrs {
			if strings.HasPrefix(mr.SourceBranch, prefix) {
				return mr, nil
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return nil, fmt.Errorf("%w: source %s*", errMergeRequestNotFound, prefix)
}
