package terraform

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"
)

// TagLister lists the tag names of a remote git repository.
type TagLister func(ctx context.Context, url string) ([]string, error)

// NewRemoteTagLister lists tags with go-git, authenticating HTTPS remotes
// with the token when one is set.
func NewRemoteTagLister(token string) TagLister {
	return func(ctx context.Context, url string) ([]string, error) {
		remote := git.NewRemote(memory.NewStorage(), &config.RemoteConfig{
			Name: "origin",
			URLs: []string{url},
		})

		var auth transport.AuthMethod
		if token != "" && strings.HasPrefix(url, "https://") {
			auth = &http.BasicAuth{Username: "x-access-token", Password: token}
		}

		refs, err := remote.ListContext(ctx, &git.ListOptions{Auth: auth})
		if err != nil {
			return nil, fmt.Errorf("failed to list tags of %q: %w", url, err)
		}

		var tags []string
		for _, ref := range refs {
			if ref.Name().IsTag() {
				tags = append(tags, ref.Name().Short())
			}
		}
		return tags, nil
	}
}
