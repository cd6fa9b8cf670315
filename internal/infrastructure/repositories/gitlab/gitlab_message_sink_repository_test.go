//go:build unit

package gitlab_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
	"github.com/rios0rios0/updatebot/internal/infrastructure/repositories/gitlab"
	builders "github.com/rios0rios0/updatebot/test/domain/entitybuilders"
	"github.com/rios0rios0/updatebot/test/infrastructure/httpdoubles"
)

const projectPath = "/api/v4/projects/acme%2Fwidgets"

func openMergeRequests(branch string) httpdoubles.Route {
	return httpdoubles.Route{
		Method: http.MethodGet,
		Prefix: projectPath + "/merge_requests",
		Status: http.StatusOK,
		Body:   `[{"iid": 2, "source_branch": "updatebot/nuget/Other.Package/2.0.0"}, {"iid": 5, "source_branch": "` + branch + `"}]`,
	}
}

func newSink(t *testing.T, api *httpdoubles.FakeAPI) *gitlab.MessageSinkRepository {
	t.Helper()

	sink, err := gitlab.NewMessageSinkRepository(
		entities.SinkSettings{Type: entities.SinkTypeGitLab, Token: "glpat-test", BaseURL: api.URL()},
		builders.NewJobBuilder().BuildJob(),
	)
	require.NoError(t, err)
	gitlabSink, ok := sink.(*gitlab.MessageSinkRepository)
	require.True(t, ok)
	return gitlabSink
}

func TestGitLabMessageSinkRepository(t *testing.T) {
	t.Parallel()

	t.Run("should commit on a new branch and open the MR", func(t *testing.T) {
		// given
		api := httpdoubles.NewFakeAPI(t,
			httpdoubles.Route{Method: http.MethodGet, Prefix: projectPath + "/repository/files/src%2Fapp.csproj/raw", Status: http.StatusOK, Body: "old"},
			httpdoubles.Route{Method: http.MethodPost, Prefix: projectPath + "/repository/commits", Status: http.StatusCreated, Body: `{"id": "commit1"}`},
			httpdoubles.Route{Method: http.MethodPost, Prefix: projectPath + "/merge_requests", Status: http.StatusCreated, Body: `{"iid": 7, "web_url": "https://gitlab.com/acme/widgets/-/merge_requests/7"}`},
		)
		sink := newSink(t, api)

		// when
		err := sink.Send(context.Background(), []entities.OutputMessage{
			entities.UpdatedDependencyList{},
			entities.CreatePullRequest{
				Dependencies: []entities.ChangedDependency{{Name: "Some.Package", Version: "1.1.0", PreviousVersion: "1.0.0"}},
				UpdatedDependencyFiles: []entities.DependencyFile{
					{Directory: "/src", Name: "app.csproj", Content: "new"},
					{Directory: "/src", Name: "packages.lock.json", Content: "{}"},
					{Directory: "/", Name: "old.props", Deleted: true},
				},
				BaseCommitSha: "base",
				CommitMessage: "Bump Some.Package from 1.0.0 to 1.1.0",
				PrTitle:       "Bump Some.Package from 1.0.0 to 1.1.0",
				PrBody:        "body",
			},
			entities.MarkAsProcessed{BaseCommitSha: "base"},
		})

		// then
		require.NoError(t, err)
		commit, ok := api.Find(http.MethodPost, "/repository/commits")
		require.True(t, ok)
		assert.Contains(t, commit.Body, `"branch":"updatebot/nuget/Some.Package/1.1.0"`)
		assert.Contains(t, commit.Body, `"start_sha":"base"`)
		assert.Contains(t, commit.Body, `"action":"update","file_path":"src/app.csproj"`)
		assert.Contains(t, commit.Body, `"action":"create","file_path":"src/packages.lock.json"`)
		assert.Contains(t, commit.Body, `"action":"delete","file_path":"old.props"`)
		mr, ok := api.Find(http.MethodPost, "/merge_requests")
		require.True(t, ok)
		assert.Contains(t, mr.Body, `"source_branch":"updatebot/nuget/Some.Package/1.1.0"`)
		assert.Contains(t, mr.Body, `"target_branch":"main"`)
	})

	t.Run("should commit on the source branch of the open MR and edit it", func(t *testing.T) {
		// given
		branch := "updatebot/nuget/Some.Package/1.0.5"
		api := httpdoubles.NewFakeAPI(t,
			openMergeRequests(branch),
			httpdoubles.Route{Method: http.MethodPost, Prefix: projectPath + "/repository/commits", Status: http.StatusCreated, Body: `{"id": "commit1"}`},
			httpdoubles.Route{Method: http.MethodPut, Prefix: projectPath + "/merge_requests/5", Status: http.StatusOK, Body: `{"iid": 5}`},
		)
		sink := newSink(t, api)

		// when
		err := sink.Send(context.Background(), []entities.OutputMessage{entities.UpdatePullRequest{
			DependencyNames: []string{"Some.Package"},
			BaseCommitSha:   "base",
			PrTitle:         "Bump Some.Package from 1.0.0 to 1.0.5",
			PrBody:          "refreshed",
		}})

		// then
		require.NoError(t, err)
		commit, ok := api.Find(http.MethodPost, "/repository/commits")
		require.True(t, ok)
		assert.Contains(t, commit.Body, `"branch":"`+branch+`"`)
		assert.Contains(t, commit.Body, `"force":true`)
		edit, ok := api.Find(http.MethodPut, "/merge_requests/5")
		require.True(t, ok)
		assert.Contains(t, edit.Body, `"description":"refreshed"`)
	})

	t.Run("should note, close and delete the source branch of the MR", func(t *testing.T) {
		// given
		api := httpdoubles.NewFakeAPI(t,
			openMergeRequests("updatebot/nuget/Some.Package/1.1.0"),
			httpdoubles.Route{Method: http.MethodPost, Prefix: projectPath + "/merge_requests/5/notes", Status: http.StatusCreated, Body: `{"id": 1}`},
			httpdoubles.Route{Method: http.MethodPut, Prefix: projectPath + "/merge_requests/5", Status: http.StatusOK, Body: `{"iid": 5, "state": "closed"}`},
			httpdoubles.Route{Method: http.MethodDelete, Prefix: projectPath + "/repository/branches/", Status: http.StatusNoContent},
		)
		sink := newSink(t, api)

		// when
		err := sink.Send(context.Background(), []entities.OutputMessage{entities.ClosePullRequest{
			DependencyNames: []string{"Some.Package"},
			Reason:          entities.CloseReasonUpdateNoLongerPossible,
		}})

		// then
		require.NoError(t, err)
		note, ok := api.Find(http.MethodPost, "/merge_requests/5/notes")
		require.True(t, ok)
		assert.Contains(t, note.Body, "can no longer be updated")
		edit, ok := api.Find(http.MethodPut, "/merge_requests/5")
		require.True(t, ok)
		assert.Contains(t, edit.Body, `"state_event":"close"`)
		_, deleted := api.Find(http.MethodDelete, "/repository/branches/updatebot%2Fnuget%2FSome.Package%2F1.1.0")
		assert.True(t, deleted)
	})

	t.Run("should ignore a close without an open MR", func(t *testing.T) {
		// given
		api := httpdoubles.NewFakeAPI(t, openMergeRequests("updatebot/nuget/Unrelated/1.0.0"))
		sink := newSink(t, api)

		// when
		err := sink.Send(context.Background(), []entities.OutputMessage{entities.ClosePullRequest{
			DependencyNames: []string{"Some.Package"},
			Reason:          entities.CloseReasonUpToDate,
		}})

		// then
		require.NoError(t, err)
		_, closed := api.Find(http.MethodPut, "/merge_requests/")
		assert.False(t, closed)
	})

	t.Run("should fail an update without an open MR", func(t *testing.T) {
		// given
		api := httpdoubles.NewFakeAPI(t, openMergeRequests("updatebot/nuget/Unrelated/1.0.0"))
		sink := newSink(t, api)

		// when
		err := sink.Send(context.Background(), []entities.OutputMessage{entities.UpdatePullRequest{
			DependencyNames: []string{"Some.Package"},
		}})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to apply update_pull_request")
	})

	t.Run("should require a group/name project", func(t *testing.T) {
		// given
		job := builders.NewJobBuilder().BuildJob()
		job.Source.Repo = "widgets"

		// when
		_, err := gitlab.NewMessageSinkRepository(entities.SinkSettings{Token: "t"}, job)

		// then
		require.Error(t, err)
	})
}
