package composer

import (
	"fmt"
	"strings"

	"github.com/rios0rios0/updatebot/internal/domain/entities"
)

// pullRequestText is the generated commit message, title and body of a PR.
type pullRequestText struct {
	CommitMessage string
	Title         string
	Body          string
}

// newPullRequestText renders the text of a PR that moves changes.
func newPullRequestText(job *entities.Job, group string, changes []entities.DependencyChange) pullRequestText {
	title := pullRequestTitle(group, changes)
	if dir := job.Source.Directory; dir != "" && dir != "/" {
		title += " in " + dir
	}

	body := pullRequestBody(group, changes)
	return pullRequestText{
		CommitMessage: title + "\n\n" + commitBody(changes),
		Title:         title,
		Body:          body,
	}
}

func pullRequestTitle(group string, changes []entities.DependencyChange) string {
	if group != "" {
		return fmt.Sprintf("Bump the %s group with %s", group, pluralize(len(changes), "update"))
	}

	switch len(changes) {
	case 0:
		return "Bump dependencies"
	case 1:
		change := changes[0]
		return fmt.Sprintf("Bump %s from %s to %s", change.Name, change.PreviousVersion, change.Version)
	default:
		names := make([]string, 0, len(changes))
		for _, change := range changes {
			names = append(names, change.Name)
		}
		return "Bump " + strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}

func commitBody(changes []entities.DependencyChange) string {
	var sb strings.Builder
	for _, change := range changes {
		sb.WriteString(fmt.Sprintf("Bumps %s from %s to %s.\n", change.Name, change.PreviousVersion, change.Version))
	}
	return sb.String()
}

func pullRequestBody(group string, changes []entities.DependencyChange) string {
	var sb strings.Builder
	sb.WriteString("## Summary\n\n")
	if group != "" {
		sb.WriteString(fmt.Sprintf("Bumps the **%s** group with %s.\n\n", group, pluralize(len(changes), "update")))
	} else {
		sb.WriteString("This PR updates the following dependencies.\n\n")
	}

	sb.WriteString("| Package | From | To |\n")
	sb.WriteString("| --- | --- | --- |\n")
	for _, change := range changes {
		sb.WriteString(fmt.Sprintf("| `%s` | `%s` | `%s` |\n", change.Name, change.PreviousVersion, change.Version))
	}

	sb.WriteString("\n### Changed files\n\n")
	for _, file := range changedFiles(changes) {
		sb.WriteString("- `" + file + "`\n")
	}

	sb.WriteString("\n---\n")
	sb.WriteString("*This PR was automatically created by [updatebot](https://github.com/rios0rios0/updatebot)*\n")
	return sb.String()
}

// changedFiles lists the declaring project files once, in change order.
func changedFiles(changes []entities.DependencyChange) []string {
	seen := make(map[string]struct{})
	var files []string
	for _, change := range changes {
		for _, occurrence := range change.Occurrences {
			if _, ok := seen[occurrence.File]; ok {
				continue
			}
			seen[occurrence.File] = struct{}{}
			files = append(files, occurrence.File)
		}
	}
	return files
}

func pluralize(count int, noun string) string {
	if count == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", count, noun)
}
