package gitdocs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Manager wraps read-only git shell-outs for the project the docs live
// in. It never writes to the repository; document generation renders
// markdown that the caller persists through the document store.
type Manager struct {
	dir    string
	logger *slog.Logger
}

func New(dir string, logger *slog.Logger) *Manager {
	return &Manager{dir: dir, logger: logger}
}

func (m *Manager) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = m.dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// IsRepo reports whether the working directory is inside a git worktree.
func (m *Manager) IsRepo(ctx context.Context) bool {
	_, err := m.run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil
}

// FileChange is one changed path with its status letter and line stats.
type FileChange struct {
	Path      string `json:"path"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// RepoStatus is a snapshot of the working tree for the UI.
type RepoStatus struct {
	IsGitRepo  bool         `json:"isGitRepo"`
	Branch     string       `json:"branch,omitempty"`
	Author     string       `json:"author,omitempty"`
	LastCommit string       `json:"lastCommit,omitempty"`
	Staged     []FileChange `json:"staged"`
	Modified   []FileChange `json:"modified"`
	Untracked  []FileChange `json:"untracked"`
}

// Status collects branch, author, last commit and the three change sets.
// Any individual probe failing degrades that field rather than failing
// the whole status.
func (m *Manager) Status(ctx context.Context) (*RepoStatus, error) {
	if !m.IsRepo(ctx) {
		return &RepoStatus{
			IsGitRepo: false,
			Staged:    []FileChange{},
			Modified:  []FileChange{},
			Untracked: []FileChange{},
		}, nil
	}

	status := &RepoStatus{IsGitRepo: true}
	status.Branch, _ = m.run(ctx, "branch", "--show-current")
	status.Author, _ = m.run(ctx, "config", "user.name")
	status.LastCommit, _ = m.run(ctx, "log", "-1", "--pretty=format:%h - %s (%ar)")

	staged, _ := m.run(ctx, "diff", "--cached", "--name-status")
	status.Staged = parseNameStatus(staged)
	modified, _ := m.run(ctx, "diff", "--name-status")
	status.Modified = parseNameStatus(modified)

	untracked, _ := m.run(ctx, "ls-files", "--others", "--exclude-standard")
	status.Untracked = []FileChange{}
	for _, path := range splitLines(untracked) {
		status.Untracked = append(status.Untracked, FileChange{Path: path, Status: "U"})
	}

	for i := range status.Staged {
		m.fillNumstat(ctx, &status.Staged[i])
	}
	for i := range status.Modified {
		m.fillNumstat(ctx, &status.Modified[i])
	}
	return status, nil
}

func (m *Manager) fillNumstat(ctx context.Context, change *FileChange) {
	out, err := m.run(ctx, "diff", "--numstat", "HEAD", "--", change.Path)
	if err != nil {
		return
	}
	fields := strings.Fields(out)
	if len(fields) >= 2 {
		change.Additions, _ = strconv.Atoi(fields[0])
		change.Deletions, _ = strconv.Atoi(fields[1])
	}
}

func parseNameStatus(out string) []FileChange {
	changes := []FileChange{}
	for _, line := range splitLines(out) {
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		changes = append(changes, FileChange{Status: parts[0], Path: parts[1]})
	}
	return changes
}

func splitLines(out string) []string {
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// Diff returns the working-tree diff for one path against HEAD.
func (m *Manager) Diff(ctx context.Context, path string) (string, error) {
	return m.run(ctx, "diff", "HEAD", "--", path)
}

// GeneratedDoc is a rendered change report ready to be persisted as a
// document.
type GeneratedDoc struct {
	Title   string
	Content string
	Tags    []string
}

// GenerateDocs renders a markdown report covering the given files: diff
// plus a bounded excerpt of each file's current content. The caller
// persists the result through the document store.
func (m *Manager) GenerateDocs(ctx context.Context, files []string) (*GeneratedDoc, error) {
	branch, _ := m.run(ctx, "branch", "--show-current")
	author, _ := m.run(ctx, "config", "user.name")
	email, _ := m.run(ctx, "config", "user.email")
	commitMessage, err := m.run(ctx, "log", "-1", "--pretty=format:%s")
	if err != nil {
		commitMessage = "Initial changes"
	}

	now := time.Now()
	var b strings.Builder
	fmt.Fprintf(&b, "# Git Changes Documentation\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Author:** %s <%s>\n", author, email)
	fmt.Fprintf(&b, "**Branch:** %s\n", branch)
	fmt.Fprintf(&b, "**Commit:** %s\n\n", commitMessage)
	fmt.Fprintf(&b, "## Summary\n\nThis documentation was automatically generated from Git changes.\n\n")
	fmt.Fprintf(&b, "**Files Changed:** %d\n\n---\n\n## Changed Files\n\n", len(files))

	for _, path := range files {
		diff, err := m.Diff(ctx, path)
		if err != nil {
			fmt.Fprintf(&b, "### `%s`\n\n**Error:** Could not read file changes.\n\n---\n\n", path)
			continue
		}
		if diff == "" {
			diff = "No changes to display"
		}

		content := "File not readable"
		if data, err := os.ReadFile(filepath.Join(m.dir, path)); err == nil {
			content = string(data)
			if len(content) > 1000 {
				content = content[:1000] + "\n\n... (truncated)"
			}
		}

		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		fmt.Fprintf(&b, "### `%s`\n\n**Changes:**\n\n```diff\n%s\n```\n\n", path, diff)
		fmt.Fprintf(&b, "**Current Content:**\n\n```%s\n%s\n```\n\n---\n\n", ext, content)
	}

	tags := []string{"git", "auto-generated"}
	if branch != "" {
		tags = append(tags, branch)
	}
	return &GeneratedDoc{
		Title:   "Git Changes - " + now.Format("2006-01-02 15:04:05"),
		Content: b.String(),
		Tags:    tags,
	}, nil
}
