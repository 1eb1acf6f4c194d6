// Package git resolves repository metadata for project registration.
package git

import (
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/snishimura/agentdeck/internal/domain"
)

// Ensure Client implements domain.RepoInspector.
var _ domain.RepoInspector = (*Client)(nil)

// Client inspects local git repositories.
type Client struct{}

// NewClient creates a new Client.
func NewClient() *Client {
	return &Client{}
}

// DefaultBranch returns the branch HEAD points at for the repository at
// path. Returns an error when path is not a git repository or HEAD is
// detached.
func (c *Client) DefaultBranch(path string) (string, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return "", fmt.Errorf("open repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is not on a branch")
	}
	return head.Name().Short(), nil
}
