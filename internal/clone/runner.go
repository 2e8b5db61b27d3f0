package clone

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/ghfolio/ghfolio/internal/execshell"
)

const (
	gitUnavailableMessageConstant = "git binary not found on PATH"
	cloneFailedTemplateConstant   = "git clone exited with code %d: %s"
	gogitBranchReferenceTemplate  = "refs/heads/%s"
	unknownEngineTemplateConstant = "unknown clone engine %q"
)

// Engine selects the clone implementation.
type Engine string

// Supported clone engines. EngineGit shells out to the git binary; EngineGoGit
// clones in process and needs no binary on PATH.
const (
	EngineGit   Engine = "git"
	EngineGoGit Engine = "gogit"
)

// ParseEngine validates an engine flag value.
func ParseEngine(value string) (Engine, error) {
	normalized := Engine(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case EngineGit, EngineGoGit:
		return normalized, nil
	case "":
		return EngineGit, nil
	default:
		return "", fmt.Errorf(unknownEngineTemplateConstant, value)
	}
}

// ErrGitUnavailable reports a failed pre-flight check for the external git binary.
var ErrGitUnavailable = errors.New(gitUnavailableMessageConstant)

// Runner performs one clone attempt. A nil return means the checkout exists
// at the target path; any error isolates to the owning task.
type Runner interface {
	Clone(executionContext context.Context, task Task) error
}

// Preflighter is implemented by runners that can verify their own
// prerequisites before any task is dispatched.
type Preflighter interface {
	Preflight() error
}

// GitRunner clones through the external git binary.
type GitRunner struct {
	executor *execshell.ShellExecutor
}

// NewGitRunner builds a runner around the provided shell executor.
func NewGitRunner(executor *execshell.ShellExecutor) *GitRunner {
	return &GitRunner{executor: executor}
}

// Preflight verifies the git binary is resolvable before dispatch.
func (runner *GitRunner) Preflight() error {
	if !execshell.GitAvailable() {
		return ErrGitUnavailable
	}
	return nil
}

// Clone invokes git clone once and maps a non-zero exit to an error carrying
// the captured stderr text.
func (runner *GitRunner) Clone(executionContext context.Context, task Task) error {
	result, executionError := runner.executor.CloneRepository(executionContext, task.CloneURL, task.TargetPath, execshell.CloneOptions{
		Branch: task.Branch,
		Depth:  task.Depth,
	})
	if executionError != nil {
		return executionError
	}
	if result.ExitCode != 0 {
		return fmt.Errorf(cloneFailedTemplateConstant, result.ExitCode, strings.TrimSpace(result.StandardError))
	}
	return nil
}

// GoGitRunner clones in process through go-git; it needs no git binary and
// serves environments where one is unavailable.
type GoGitRunner struct{}

// NewGoGitRunner constructs the in-process runner.
func NewGoGitRunner() *GoGitRunner {
	return &GoGitRunner{}
}

// Clone performs an in-process clone honoring branch and depth refinements.
func (runner *GoGitRunner) Clone(executionContext context.Context, task Task) error {
	cloneOptions := &gogit.CloneOptions{URL: task.CloneURL}
	if task.Depth > 0 {
		cloneOptions.Depth = task.Depth
		cloneOptions.SingleBranch = true
	}
	if len(task.Branch) > 0 {
		cloneOptions.ReferenceName = plumbing.ReferenceName(fmt.Sprintf(gogitBranchReferenceTemplate, task.Branch))
		cloneOptions.SingleBranch = true
	}

	_, cloneError := gogit.PlainCloneContext(executionContext, task.TargetPath, false, cloneOptions)
	return cloneError
}
