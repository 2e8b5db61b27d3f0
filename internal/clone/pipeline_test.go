package clone_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ghfolio/ghfolio/internal/clone"
)

type stubRunner struct {
	mutex        sync.Mutex
	cloned       []clone.Task
	failures     map[string]error
	preflightErr error
	panicRepo    string
	createTarget bool
}

func (runner *stubRunner) Preflight() error {
	return runner.preflightErr
}

func (runner *stubRunner) Clone(_ context.Context, task clone.Task) error {
	if task.Identifier.String() == runner.panicRepo {
		panic("disk full")
	}

	runner.mutex.Lock()
	runner.cloned = append(runner.cloned, task)
	runner.mutex.Unlock()

	if failure, exists := runner.failures[task.Identifier.String()]; exists {
		if runner.createTarget {
			_ = os.MkdirAll(task.TargetPath, 0o755)
			_ = os.WriteFile(filepath.Join(task.TargetPath, "partial"), []byte("x"), 0o644)
		}
		return failure
	}
	return nil
}

func newPipeline(t *testing.T, runner clone.Runner) *clone.Pipeline {
	t.Helper()
	pipeline, creationError := clone.NewPipeline(runner, func() bool { return false }, nil)
	require.NoError(t, creationError)
	return pipeline
}

func TestRunReturnsResultsInInputOrder(t *testing.T) {
	runner := &stubRunner{}
	pipeline := newPipeline(t, runner)

	tokens := []string{"acme/repo1", "acme/repo2", "acme/repo1"}
	results, stats, runError := pipeline.Run(context.Background(), clone.Options{
		Tokens:          tokens,
		TargetDirectory: t.TempDir(),
		Parallel:        2,
	})
	require.NoError(t, runError)
	require.Len(t, results, len(tokens))
	for position, token := range tokens {
		require.Equal(t, token, results[position].Identifier.String())
		require.Equal(t, clone.StatusSuccess, results[position].Status)
	}
	require.Equal(t, 3, stats.Total)
	require.Equal(t, 3, stats.Successful)
}

func TestRunSkipsExistingNonEmptyTargets(t *testing.T) {
	targetDirectory := t.TempDir()
	tokens := []string{"acme/repo1", "acme/repo2", "acme/repo3"}
	for _, token := range tokens {
		repositoryPath := filepath.Join(targetDirectory, filepath.FromSlash(token))
		require.NoError(t, os.MkdirAll(repositoryPath, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(repositoryPath, "README.md"), []byte("existing"), 0o644))
	}

	runner := &stubRunner{}
	pipeline := newPipeline(t, runner)

	results, stats, runError := pipeline.Run(context.Background(), clone.Options{
		Tokens:          tokens,
		TargetDirectory: targetDirectory,
		SkipExisting:    true,
	})
	require.NoError(t, runError)
	require.Len(t, results, len(tokens))
	for _, result := range results {
		require.Equal(t, clone.StatusSkipped, result.Status)
	}
	require.Equal(t, len(tokens), stats.Skipped)
	require.Empty(t, runner.cloned, "skip decisions must not reach the runner")
}

func TestRunStatsAreExactFold(t *testing.T) {
	runner := &stubRunner{failures: map[string]error{"acme/broken": errors.New("git clone exited with code 128: not found")}}
	pipeline := newPipeline(t, runner)

	results, stats, runError := pipeline.Run(context.Background(), clone.Options{
		Tokens:          []string{"acme/repo1", "acme/broken", "acme/repo2"},
		TargetDirectory: t.TempDir(),
		Parallel:        3,
	})
	require.NoError(t, runError)
	require.Equal(t, len(results), stats.Total)
	require.Equal(t, stats.Total, stats.Successful+stats.Skipped+stats.Failed)
	require.Equal(t, 1, stats.Failed)
	require.Len(t, stats.Failures, 1)
	require.Equal(t, "acme/broken", stats.Failures[0].Identifier.String())
	require.Contains(t, stats.Failures[0].Message, "code 128")
}

func TestRunRejectsMalformedIdentifierBeforeDispatch(t *testing.T) {
	runner := &stubRunner{}
	pipeline := newPipeline(t, runner)

	results, _, runError := pipeline.Run(context.Background(), clone.Options{
		Tokens:          []string{"acme/repo1", "no-separator"},
		TargetDirectory: t.TempDir(),
	})
	require.Error(t, runError)
	require.Nil(t, results, "validation failures must produce no partial results")
	require.Empty(t, runner.cloned, "no clone may start on invalid input")
}

func TestRunSurfacesPreflightFailure(t *testing.T) {
	runner := &stubRunner{preflightErr: clone.ErrGitUnavailable}
	pipeline := newPipeline(t, runner)

	_, _, runError := pipeline.Run(context.Background(), clone.Options{
		Tokens:          []string{"acme/repo1"},
		TargetDirectory: t.TempDir(),
	})
	require.ErrorIs(t, runError, clone.ErrGitUnavailable)
	require.Empty(t, runner.cloned)
}

func TestRunConvertsWorkerPanicIntoFailedResult(t *testing.T) {
	runner := &stubRunner{panicRepo: "acme/cursed"}
	pipeline := newPipeline(t, runner)

	results, stats, runError := pipeline.Run(context.Background(), clone.Options{
		Tokens:          []string{"acme/cursed", "acme/fine"},
		TargetDirectory: t.TempDir(),
		Parallel:        1,
	})
	require.NoError(t, runError)
	require.Equal(t, clone.StatusFailed, results[0].Status)
	require.Contains(t, results[0].Message, "disk full")
	require.Equal(t, clone.StatusSuccess, results[1].Status)
	require.Equal(t, 1, stats.Failed)
}

func TestRunCleansUpFailedTargets(t *testing.T) {
	targetDirectory := t.TempDir()
	runner := &stubRunner{
		failures: map[string]error{"acme/broken": errors.New("network unreachable")},
		createTarget: true,
	}
	pipeline := newPipeline(t, runner)

	_, _, runError := pipeline.Run(context.Background(), clone.Options{
		Tokens:          []string{"acme/broken"},
		TargetDirectory: targetDirectory,
		CleanupFailures: true,
	})
	require.NoError(t, runError)

	_, statError := os.Stat(filepath.Join(targetDirectory, "acme", "broken"))
	require.True(t, os.IsNotExist(statError), "partial target must be removed after a definite failure")
}

func TestRunProgressCallbackReceivesRunningTotals(t *testing.T) {
	runner := &stubRunner{}
	pipeline := newPipeline(t, runner)

	var updates []clone.ProgressUpdate
	_, _, runError := pipeline.Run(context.Background(), clone.Options{
		Tokens:          []string{"acme/repo1", "acme/repo2"},
		TargetDirectory: t.TempDir(),
		Parallel:        2,
		Progress: func(update clone.ProgressUpdate) {
			updates = append(updates, update)
		},
	})
	require.NoError(t, runError)
	require.Len(t, updates, 2)
	require.Equal(t, 2, updates[len(updates)-1].Completed)
	require.Equal(t, 2, updates[len(updates)-1].Total)
}

func TestRunCancelledContextMarksRemainingTasksFailed(t *testing.T) {
	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &stubRunner{}
	pipeline := newPipeline(t, runner)

	results, stats, runError := pipeline.Run(cancelledContext, clone.Options{
		Tokens:          []string{"acme/repo1", "acme/repo2"},
		TargetDirectory: t.TempDir(),
		Parallel:        1,
	})
	require.NoError(t, runError)
	require.Equal(t, len(results), stats.Total)
	require.Equal(t, stats.Total, stats.Successful+stats.Skipped+stats.Failed)
}

func TestComputeStatsEmptyInput(t *testing.T) {
	stats := clone.ComputeStats(nil)
	require.Zero(t, stats.Total)
	require.Zero(t, stats.Successful+stats.Skipped+stats.Failed)
}
