package check

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
)

// maxNewlineChecks caps how many files are fetched for the final-newline check.
const maxNewlineChecks = 30

// FileCheck looks at the files the PR changes. Files inherited from the default branch are
// left out.
type FileCheck struct {
	Remote Remote
	Logger *slog.Logger

	inherited *inheritedLoader
}

func (c *FileCheck) Name() string { return "files" }

func (c *FileCheck) Run(ctx context.Context, in Input, rec *Recorder) error {
	s := in.Config.Files
	if len(s.AllowedExtensions) == 0 && len(s.AllowedPaths) == 0 && len(s.BlockedPaths) == 0 && !s.RequireFinalNewline {
		return nil
	}
	if c.Remote == nil {
		return ErrNoRemote
	}
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if c.inherited == nil {
		c.inherited = &inheritedLoader{remote: c.Remote}
	}

	changed, err := c.Remote.Files(ctx, in.PR)
	if err != nil {
		return fmt.Errorf("list files: %w", err)
	}
	inherited, err := c.inherited.load(ctx, in.PR)
	if err != nil {
		return fmt.Errorf("compare %s with %s: %w", in.PR.BaseBranch, in.PR.DefaultBranch, err)
	}

	var files []ChangedFile
	for _, f := range changed {
		if inherited.Files[f.Name] {
			continue
		}
		files = append(files, f)
	}

	if len(s.AllowedExtensions) > 0 {
		var bad []string
		for _, f := range files {
			if !HasAllowedExtension(f.Name, s.AllowedExtensions) {
				bad = append(bad, f.Name)
			}
		}
		rec.Record(fileResult("file-extensions", bad,
			"All changed files have allowed extensions",
			"Found %d file(s) with disallowed extensions: %s"))
	}

	if len(s.AllowedPaths) > 0 {
		var bad []string
		for _, f := range files {
			if !MatchAnyPath(f.Name, s.AllowedPaths) {
				bad = append(bad, f.Name)
			}
		}
		rec.Record(fileResult("allowed-paths", bad,
			"All changed files are in allowed paths",
			"Found %d file(s) outside allowed paths: %s"))
	}

	if len(s.BlockedPaths) > 0 {
		var bad []string
		for _, f := range files {
			if MatchAnyPath(f.Name, s.BlockedPaths) {
				bad = append(bad, f.Name)
			}
		}
		rec.Record(fileResult("blocked-paths", bad,
			"No changed files found in blocked paths",
			"Found %d file(s) in blocked paths: %s"))
	}

	if s.RequireFinalNewline {
		var missing []string
		checked := 0
		for _, f := range files {
			if f.Status == "removed" {
				continue
			}
			if checked == maxNewlineChecks {
				break
			}
			checked++

			// Fork branches do not exist in the base repository, so read at the head commit.
			content, err := c.Remote.FileContent(ctx, in.PR, f.Name, in.PR.HeadSHA)
			if err != nil {
				logger.Warn("error checking final newline", "file", f.Name, "error", err)
				continue
			}
			if content != "" && !strings.HasSuffix(content, "\n") {
				missing = append(missing, f.Name)
			}
		}
		rec.Record(fileResult("final-newline", missing,
			"All changed files end with a newline",
			"Found %d file(s) missing a final newline: %s"))
	}
	return nil
}

func fileResult(name string, bad []string, okMessage, failFormat string) Result {
	if len(bad) == 0 {
		return Result{Name: name, Passed: true, Message: okMessage}
	}
	return Result{Name: name, Passed: false,
		Message: fmt.Sprintf(failFormat, len(bad), `"`+strings.Join(bad, `", "`)+`"`)}
}

// HasAllowedExtension reports whether name's extension is listed, ignoring case and a
// leading dot. Dotfiles and names without an extension always pass.
func HasAllowedExtension(name string, allowed []string) bool {
	base := path.Base(name)
	dot := strings.LastIndex(base, ".")
	if dot <= 0 {
		return true
	}
	ext := strings.ToLower(base[dot:])
	for _, a := range allowed {
		a = strings.ToLower(a)
		if !strings.HasPrefix(a, ".") {
			a = "." + a
		}
		if a == ext {
			return true
		}
	}
	return false
}

// MatchAnyPath reports whether name equals a pattern, or sits under one ending in "/".
// Comparison ignores case.
func MatchAnyPath(name string, patterns []string) bool {
	lower := strings.ToLower(name)
	for _, p := range patterns {
		p = strings.ToLower(p)
		if strings.HasSuffix(p, "/") {
			if strings.HasPrefix(lower, p) {
				return true
			}
		} else if lower == p {
			return true
		}
	}
	return false
}
