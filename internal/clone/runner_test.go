package clone_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/ghfolio/ghfolio/internal/clone"
	"github.com/ghfolio/ghfolio/internal/identifier"
)

func TestParseEngine(t *testing.T) {
	testCases := []struct {
		name          string
		value         string
		expected      clone.Engine
		expectFailure bool
	}{
		{name: "git", value: "git", expected: clone.EngineGit},
		{name: "gogit", value: "gogit", expected: clone.EngineGoGit},
		{name: "mixed case", value: " GoGit ", expected: clone.EngineGoGit},
		{name: "empty defaults to git", value: "", expected: clone.EngineGit},
		{name: "unknown", value: "mercurial", expectFailure: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			engine, parseError := clone.ParseEngine(testCase.value)
			if testCase.expectFailure {
				require.Error(t, parseError)
				return
			}
			require.NoError(t, parseError)
			require.Equal(t, testCase.expected, engine)
		})
	}
}

func TestGoGitRunnerClonesLocalRepository(t *testing.T) {
	sourcePath := seedLocalRepository(t)
	targetPath := filepath.Join(t.TempDir(), "checkout")

	runner := clone.NewGoGitRunner()
	task := clone.Task{
		Identifier: identifier.Identifier{Owner: "acme", Name: "alpha"},
		CloneURL:   sourcePath,
		TargetPath: targetPath,
	}

	cloneError := runner.Clone(context.Background(), task)
	require.NoError(t, cloneError)
	require.FileExists(t, filepath.Join(targetPath, "README.md"))
}

func TestGoGitRunnerReportsMissingSource(t *testing.T) {
	runner := clone.NewGoGitRunner()
	task := clone.Task{
		Identifier: identifier.Identifier{Owner: "acme", Name: "ghost"},
		CloneURL:   filepath.Join(t.TempDir(), "does-not-exist"),
		TargetPath: filepath.Join(t.TempDir(), "checkout"),
	}

	cloneError := runner.Clone(context.Background(), task)
	require.Error(t, cloneError)
}

func seedLocalRepository(t *testing.T) string {
	t.Helper()

	sourcePath := t.TempDir()
	repository, initError := gogit.PlainInit(sourcePath, false)
	require.NoError(t, initError)

	readmePath := filepath.Join(sourcePath, "README.md")
	require.NoError(t, os.WriteFile(readmePath, []byte("# alpha\n"), 0o644))

	worktree, worktreeError := repository.Worktree()
	require.NoError(t, worktreeError)

	_, addError := worktree.Add("README.md")
	require.NoError(t, addError)

	signature := &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()}
	_, commitError := worktree.Commit("seed", &gogit.CommitOptions{Author: signature})
	require.NoError(t, commitError)

	return sourcePath
}
