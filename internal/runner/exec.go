package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/shlex"
	"golang.org/x/sync/errgroup"

	"github.com/raphi011/hk/internal/git"
	"github.com/raphi011/hk/internal/log"
	"github.com/raphi011/hk/internal/manifest"
)

// runHook executes one hook against the candidate files and classifies
// the outcome. A hook that leaves the working tree different from how
// it found it fails even when its exit code is zero.
func (r *Runner) runHook(ctx context.Context, t task, files []string, filesApply bool, opts Options) Result {
	res := Result{Hook: t.hook}
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	matched := files
	if filesApply {
		m, err := manifest.NewMatcher(&t.hook, r.cfg.Exclude)
		if err != nil {
			res.Status = StatusFailed
			res.Err = err
			return res
		}
		matched = m.Filter(files)
		if len(matched) == 0 && !t.hook.AlwaysRun {
			res.Status = StatusSkipped
			res.SkipReason = "no files to check"
			return res
		}
	}

	if t.hook.Language == manifest.LanguageFail {
		res.Status = StatusFailed
		res.Err = errors.New("matched files are not allowed")
		var buf bytes.Buffer
		if t.hook.Entry != "" {
			fmt.Fprintln(&buf, t.hook.Entry)
		}
		for _, f := range matched {
			fmt.Fprintln(&buf, f)
		}
		res.Output = buf.Bytes()
		return res
	}

	argv, err := t.argv()
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		return res
	}

	before, err := git.TakeSnapshot(ctx, r.repoRoot)
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		return res
	}

	out, runErr := r.invocations(ctx, t, argv, matched, opts.Jobs)
	res.Output = out

	after, err := git.TakeSnapshot(ctx, r.repoRoot)
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		return res
	}

	switch {
	case runErr != nil:
		res.Status = StatusFailed
		res.Err = runErr
	case before != after:
		res.Status = StatusFailed
		res.Err = errors.New("files were modified by this hook")
	default:
		res.Status = StatusPassed
	}
	return res
}

// argv builds the command line for a hook, without filenames. Script
// entries resolve relative to the source the hook came from.
func (t *task) argv() ([]string, error) {
	argv, err := shlex.Split(t.hook.Entry)
	if err != nil {
		return nil, fmt.Errorf("hook %s: invalid entry %q: %w", t.hook.ID, t.hook.Entry, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("hook %s: empty entry", t.hook.ID)
	}
	if t.hook.Language == manifest.LanguageScript {
		argv[0] = filepath.Join(t.sourceDir, argv[0])
	}
	return append(argv, t.hook.Args...), nil
}

// invocations runs the hook command, chunking the file list across
// parallel invocations unless the hook requires a single serial one.
func (r *Runner) invocations(ctx context.Context, t task, argv, files []string, jobs int) ([]byte, error) {
	env := hookEnv(&t.hook)

	if !t.hook.PassesFilenames() || len(files) == 0 {
		return r.invoke(ctx, argv, nil, env)
	}
	if t.hook.RequireSerial || jobs <= 1 || len(files) == 1 {
		return r.invoke(ctx, argv, files, env)
	}

	chunks := chunkFiles(files, jobs)

	var (
		mu      sync.Mutex
		outputs = make([][]byte, len(chunks))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, chunk := range chunks {
		g.Go(func() error {
			out, err := r.invoke(gctx, argv, chunk, env)
			mu.Lock()
			outputs[i] = out
			mu.Unlock()
			return err
		})
	}
	err := g.Wait()

	var combined bytes.Buffer
	for _, out := range outputs {
		combined.Write(out)
	}
	return combined.Bytes(), err
}

// invoke runs a single hook command and captures combined output.
func (r *Runner) invoke(ctx context.Context, argv, files, env []string) ([]byte, error) {
	args := append(append([]string(nil), argv[1:]...), files...)

	done := log.FromContext(ctx).Command(r.repoRoot, argv[0], args...)
	start := time.Now()

	cmd := exec.CommandContext(ctx, argv[0], args...)
	cmd.Dir = r.repoRoot
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	done(time.Since(start))

	if err != nil {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out, fmt.Errorf("exit code %d", exitErr.ExitCode())
		}
		return out, err
	}
	return out, nil
}

func hookEnv(h *manifest.Hook) []string {
	env := os.Environ()
	for k, v := range h.Env {
		env = append(env, k+"="+v)
	}
	return env
}

// chunkFiles splits files into at most n similarly sized chunks.
func chunkFiles(files []string, n int) [][]string {
	if n > len(files) {
		n = len(files)
	}
	size := (len(files) + n - 1) / n

	var chunks [][]string
	for start := 0; start < len(files); start += size {
		end := start + size
		if end > len(files) {
			end = len(files)
		}
		chunks = append(chunks, files[start:end])
	}
	return chunks
}
