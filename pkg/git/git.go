// Package git reads the GitHub context of a local checkout when the CI
// environment does not provide it.
package git

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v5"
	giturl "github.com/kubescape/go-git-url"

	log "github.com/cloudposse/buildcheck/pkg/logger"
	"github.com/cloudposse/buildcheck/pkg/schema"
)

const defaultRemote = "origin"

// RepoInfo describes the checkout a build runs in.
type RepoInfo struct {
	Head      string
	RepoUrl   string
	RepoOwner string
	RepoName  string
	RepoHost  string
}

// Repository returns "owner/name", or "" when the remote is unknown.
func (r RepoInfo) Repository() string {
	if r.RepoOwner == "" || r.RepoName == "" {
		return ""
	}
	return r.RepoOwner + "/" + r.RepoName
}

// OpenWorktreeAwareRepo opens the repository containing path, handling both
// regular repositories and worktrees.
func OpenWorktreeAwareRepo(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err == nil {
		return repo, nil
	}

	// A .git file marks a worktree whose config lives in the common dir.
	info, statErr := os.Stat(filepath.Join(path, ".git"))
	if statErr == nil && !info.IsDir() {
		repo, worktreeErr := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
			DetectDotGit:          true,
			EnableDotGitCommonDir: true,
		})
		if worktreeErr == nil {
			return repo, nil
		}
	}
	return nil, err
}

// GetRepoInfo returns the HEAD commit and the owner and name parsed from the
// origin remote, or the first remote by name when there is no origin.
func GetRepoInfo(repo *git.Repository) (RepoInfo, error) {
	var info RepoInfo

	head, err := repo.Head()
	if err != nil {
		return info, err
	}
	info.Head = head.Hash().String()

	remotes, err := repo.Remotes()
	if err != nil || len(remotes) == 0 {
		return info, err
	}
	sort.Slice(remotes, func(i, j int) bool {
		if remotes[i].Config().Name == defaultRemote {
			return true
		}
		if remotes[j].Config().Name == defaultRemote {
			return false
		}
		return remotes[i].Config().Name < remotes[j].Config().Name
	})

	urls := remotes[0].Config().URLs
	if len(urls) == 0 || urls[0] == "" {
		return info, nil
	}

	gitURL, err := giturl.NewGitURL(urls[0])
	if err != nil {
		return info, err
	}
	info.RepoUrl = urls[0]
	info.RepoOwner = gitURL.GetOwnerName()
	info.RepoName = gitURL.GetRepoName()
	info.RepoHost = gitURL.GetHostName()
	return info, nil
}

// FillGitHubContext sets the commit and repository of cfg from the checkout
// at root when they are not configured. It never fails; a directory that is
// not a repository leaves cfg unchanged.
func FillGitHubContext(cfg *schema.GitHubConfig, root string) {
	if cfg.SHA != "" && cfg.Repository != "" {
		return
	}

	repo, err := OpenWorktreeAwareRepo(root)
	if err != nil {
		log.Debug("No local repository", "path", root, "error", err)
		return
	}
	info, err := GetRepoInfo(repo)
	if err != nil {
		log.Debug("Could not read local repository", "path", root, "error", err)
	}

	if cfg.SHA == "" && info.Head != "" {
		cfg.SHA = info.Head
		log.Debug("Using local HEAD as commit", "sha", info.Head)
	}
	if cfg.Repository == "" && info.Repository() != "" {
		cfg.Repository = info.Repository()
		log.Debug("Using local remote as repository", "repository", cfg.Repository)
	}
}
