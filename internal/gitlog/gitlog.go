// Package gitlog wraps the git subprocess contract used by the trailer
// index (batch ingestion, HEAD/git-dir discovery) and by the sandbox's
// sanitized gitLog effect (§6.5, §4.8).
package gitlog

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/srdjan/rlm-git-commits/internal/logging"
)

// RecordFormat is the fixed, unambiguous per-commit format used for
// batch ingestion (§4.1, §6.5).
const RecordFormat = "---commit---%nHash: %H%nDate: %aI%nSubject: %s%n%b"

// Runner executes git subprocesses rooted at Dir.
type Runner struct {
	Dir string
}

func New(dir string) *Runner {
	return &Runner{Dir: dir}
}

// Log runs `git log -<n> --format=<RecordFormat>` and returns its raw
// stdout, split into per-commit records via SplitRecords (§6.5).
func (r *Runner) Log(ctx context.Context, n int) ([]string, error) {
	log := logging.Get(logging.CategoryGit)
	out, err := r.run(ctx, "log", fmt.Sprintf("-%d", n), "--format="+RecordFormat)
	if err != nil {
		log.Error("git log failed: %v", err)
		return nil, fmt.Errorf("git-log-failed: %w", err)
	}
	return SplitRecords(out), nil
}

// SplitRecords splits raw `git log --format=RecordFormat` stdout on the
// "---commit---" separator the format string emits before every
// commit, dropping empty records. It is shared by Log and by a live
// (unindexed) --grep query, since both produce output in RecordFormat.
func SplitRecords(out string) []string {
	records := strings.Split(out, "---commit---\n")
	var result []string
	for _, rec := range records {
		if strings.TrimSpace(rec) == "" {
			continue
		}
		result = append(result, rec)
	}
	return result
}

// GitDir returns the repository's git metadata directory
// (`git rev-parse --git-dir`).
func (r *Runner) GitDir(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "--git-dir")
	if err != nil {
		return "", fmt.Errorf("git-log-failed: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// HEAD returns the current HEAD commit hash (`git rev-parse HEAD`).
func (r *Runner) HEAD(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git-log-failed: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Sanitized runs a validated `git log <args...>` for the sandbox's
// gitLog effect (§4.8) and for LiveGrep. Sanitized validates and
// normalizes args through Sanitize itself, so callers may pass
// unvalidated args; the sandbox's gitLog binding has already run
// Sanitize once before its effect reaches here.
func (r *Runner) Sanitized(ctx context.Context, args []string) (string, error) {
	clean, err := Sanitize(args)
	if err != nil {
		return "", err
	}
	full := append([]string{"log"}, clean...)
	return r.run(ctx, full...)
}

func (r *Runner) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.String(), fmt.Errorf("%w: %s", err, stderr.String())
	}
	return stdout.String(), nil
}
