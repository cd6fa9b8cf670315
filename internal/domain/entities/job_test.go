//go:build unit

package entities_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

func TestParseJob(t *testing.T) {
	t.Parallel()

	t.Run("should read a job wrapped in a job envelope", func(t *testing.T) {
		// given
		content := `
job:
  id: "1234"
  package-manager: nuget
  dependencies: [Newtonsoft.Json, Azure.Core]
  updating-a-pull-request: true
  existing-pull-requests:
    - dependencies:
        - dependency-name: Newtonsoft.Json
          dependency-version: 13.0.3
  security-advisories:
    - dependency-name: Newtonsoft.Json
      affected-versions: ["< 13.0.1"]
  source:
    provider: github
    repo: acme/widgets
    directory: src
`

		// when
		job, err := entities.ParseJob([]byte(content))

		// then
		require.NoError(t, err)
		assert.Equal(t, "1234", job.ID)
		assert.True(t, job.UpdatingAPullRequest)
		assert.Equal(t, []string{"Azure.Core", "Newtonsoft.Json"}, job.TrackedDependencyNames())
		version, ok := job.ExistingPullRequests[0].PinnedVersion("Newtonsoft.Json")
		assert.True(t, ok)
		assert.Equal(t, "13.0.3", version)
		assert.Equal(t, []entities.Requirement{"< 13.0.1"}, job.SecurityAdvisories[0].AffectedVersions)
		assert.Equal(t, "/src", job.Source.Directory)
	})

	t.Run("should read an unwrapped JSON job", func(t *testing.T) {
		// given
		content := `{"id": "7", "package-manager": "terraform", "dependency-groups": [` +
			`{"name": "aws", "rules": {"patterns": ["hashicorp/aws*"]}}], "source": {"repo": "acme/infra"}}`

		// when
		job, err := entities.ParseJob([]byte(content))

		// then
		require.NoError(t, err)
		assert.Equal(t, "terraform", job.PackageManager)
		assert.Equal(t, "/", job.Source.Directory)
		group, ok := job.FindGroup("aws")
		require.True(t, ok)
		assert.Equal(t, []string{"hashicorp/aws*"}, group.Rules.Patterns)
		_, missing := job.FindGroup("gcp")
		assert.False(t, missing)
	})

	t.Run("should fail for malformed content", func(t *testing.T) {
		// given
		content := "id: [unterminated"

		// when
		job, err := entities.ParseJob([]byte(content))

		// then
		require.Error(t, err)
		assert.Nil(t, job)
	})
}

func TestNewJob(t *testing.T) {
	t.Parallel()

	t.Run("should read the job from a file", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "job.yaml")
		require.NoError(t, os.WriteFile(path, []byte("job:\n  id: file-job\n"), 0o600))

		// when
		job, err := entities.NewJob(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "file-job", job.ID)
	})

	t.Run("should fail when the file does not exist", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "missing.yaml")

		// when
		_, err := entities.NewJob(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read job file")
	})
}

func TestJobFindGroupPullRequest(t *testing.T) {
	t.Parallel()

	t.Run("should find the open PR of a group", func(t *testing.T) {
		// given
		job := &entities.Job{ExistingGroupPullRequests: []entities.ExistingGroupPullRequest{{
			GroupName:    "aws",
			Dependencies: []entities.PullRequestDependency{{Name: "hashicorp/aws", Version: "5.0.0"}},
		}}}

		// when
		pr, ok := job.FindGroupPullRequest("aws")

		// then
		require.True(t, ok)
		version, pinned := pr.PinnedVersion("hashicorp/aws")
		assert.True(t, pinned)
		assert.Equal(t, "5.0.0", version)
	})
}
