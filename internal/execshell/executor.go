package execshell

import (
	"context"
	"errors"
	"os/exec"
	"strconv"

	"go.uber.org/zap"
)

const (
	runnerNotConfiguredMessageConstant = "command runner not configured"
	commandStartedMessageConstant      = "external command started"
	commandCompletedMessageConstant    = "external command completed"
	logFieldCommandConstant            = "command"
	logFieldArgumentsConstant          = "arguments"
	logFieldExitCodeConstant           = "exit_code"
	gitCloneSubcommandConstant         = "clone"
	gitBranchFlagConstant              = "--branch"
	gitDepthFlagConstant               = "--depth"
	gitSingleBranchFlagConstant        = "--single-branch"
)

var errRunnerNotConfigured = errors.New(runnerNotConfiguredMessageConstant)

// ShellExecutor coordinates command construction, logging, and execution.
type ShellExecutor struct {
	logger *zap.Logger
	runner CommandRunner
}

// NewShellExecutor builds a ShellExecutor around the provided runner.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	if runner == nil {
		return nil, errRunnerNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShellExecutor{logger: logger, runner: runner}, nil
}

// ExecuteGit runs git with the provided invocation details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	command := ShellCommand{Name: CommandGit, Details: details}

	executor.logger.Debug(
		commandStartedMessageConstant,
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
	)

	result, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		return ExecutionResult{}, runError
	}

	executor.logger.Debug(
		commandCompletedMessageConstant,
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Int(logFieldExitCodeConstant, result.ExitCode),
	)

	return result, nil
}

// CloneOptions carries the optional git clone refinements.
type CloneOptions struct {
	Branch string
	Depth  int
}

// CloneRepository runs a single git clone attempt for the given URL and target path.
func (executor *ShellExecutor) CloneRepository(executionContext context.Context, cloneURL string, targetPath string, options CloneOptions) (ExecutionResult, error) {
	arguments := []string{gitCloneSubcommandConstant}
	if len(options.Branch) > 0 {
		arguments = append(arguments, gitBranchFlagConstant, options.Branch)
	}
	if options.Depth > 0 {
		arguments = append(arguments, gitDepthFlagConstant, strconv.Itoa(options.Depth), gitSingleBranchFlagConstant)
	}
	arguments = append(arguments, cloneURL, targetPath)

	return executor.ExecuteGit(executionContext, CommandDetails{Arguments: arguments})
}

// GitAvailable reports whether the git binary can be resolved on the PATH.
func GitAvailable() bool {
	_, lookupError := exec.LookPath(string(CommandGit))
	return lookupError == nil
}
