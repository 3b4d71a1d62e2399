// Package gitsource fetches a git repository of Markdown notes so it can be
// imported as a flashcard topic.
package gitsource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// Fetch clones repoURL into a cache path under baseDir on first use, or
// pulls the latest changes on later runs. It returns the local checkout
// path to walk for .md files.
func Fetch(ctx context.Context, baseDir, repoURL string) (string, error) {
	localPath, err := localPathFor(baseDir, repoURL)
	if err != nil {
		return "", err
	}

	_, statErr := os.Stat(localPath)
	if errors.Is(statErr, os.ErrNotExist) {
		slog.Info("cloning notes repository", "url", repoURL, "path", localPath)
		if _, err := git.PlainCloneContext(ctx, localPath, false, &git.CloneOptions{URL: repoURL}); err != nil {
			return "", fmt.Errorf("failed to clone %s: %w", repoURL, err)
		}
		return localPath, nil
	}
	if statErr != nil {
		return "", fmt.Errorf("failed to stat %s: %w", localPath, statErr)
	}

	slog.Info("pulling notes repository", "path", localPath)
	repo, err := git.PlainOpen(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open repository at %s: %w", localPath, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree at %s: %w", localPath, err)
	}
	err = worktree.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return "", fmt.Errorf("failed to pull %s: %w", repoURL, err)
	}
	return localPath, nil
}

// localPathFor maps a repository URL to a stable checkout directory under
// baseDir: host/owner/repo for https URLs and scp-style ssh remotes.
func localPathFor(baseDir, repoURL string) (string, error) {
	parsed, err := url.Parse(repoURL)
	if err == nil && (parsed.Scheme == "https" || parsed.Scheme == "http") {
		p := strings.TrimSuffix(parsed.Path, ".git")
		return filepath.Join(baseDir, parsed.Host, p), nil
	}

	// scp-style remote: git@host:owner/repo.git
	if at := strings.Index(repoURL, "@"); at >= 0 {
		rest := repoURL[at+1:]
		if colon := strings.Index(rest, ":"); colon >= 0 {
			host := rest[:colon]
			p := strings.TrimSuffix(rest[colon+1:], ".git")
			if host != "" && p != "" {
				return filepath.Join(baseDir, host, p), nil
			}
		}
	}
	return "", fmt.Errorf("could not parse git URL: %s", repoURL)
}
