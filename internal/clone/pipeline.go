package clone

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ghfolio/ghfolio/internal/identifier"
)

const (
	runnerRequiredMessageConstant      = "clone runner not configured"
	skippedExistingMessageConstant     = "target path already exists"
	cancelledMessageConstant           = "cancelled before dispatch"
	workerPanicTemplateConstant        = "clone worker panic: %v"
	cleanupFailedMessageConstant       = "failed to remove partial clone target"
	logFieldTargetPathConstant         = "target_path"
	logFieldRepositoryConstant         = "repository"
)

// Pipeline clones batches of repositories across a bounded worker pool.
type Pipeline struct {
	runner   Runner
	sshProbe SSHProbe
	logger   *zap.Logger
}

// NewPipeline constructs a Pipeline around the provided runner. A nil probe
// falls back to the default ~/.ssh heuristic.
func NewPipeline(runner Runner, sshProbe SSHProbe, logger *zap.Logger) (*Pipeline, error) {
	if runner == nil {
		return nil, errors.New(runnerRequiredMessageConstant)
	}
	if sshProbe == nil {
		sshProbe = DefaultSSHProbe
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{runner: runner, sshProbe: sshProbe, logger: logger}, nil
}

// Run validates the batch, dispatches tasks across the worker pool, and
// returns results in input order together with their aggregate statistics.
//
// Input validation failures and failed pre-flight checks abort the whole
// batch before any clone starts. Per-task failures never do: each is
// isolated into its own failed Result.
func (pipeline *Pipeline) Run(executionContext context.Context, options Options) ([]Result, Stats, error) {
	identifiers, parseError := identifier.ParseList(options.Tokens)
	if parseError != nil {
		return nil, Stats{}, parseError
	}

	if preflighter, implementsPreflight := pipeline.runner.(Preflighter); implementsPreflight {
		if preflightError := preflighter.Preflight(); preflightError != nil {
			return nil, Stats{}, preflightError
		}
	}

	tasks := pipeline.buildTasks(identifiers, options)

	parallel := options.Parallel
	if parallel < 1 {
		parallel = DefaultParallelism
	}
	if parallel > len(tasks) && len(tasks) > 0 {
		parallel = len(tasks)
	}

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = DefaultCloneTimeout
	}

	type indexedTask struct {
		position int
		task     Task
	}

	taskQueue := make(chan indexedTask)
	results := make([]Result, len(tasks))

	var progressMutex sync.Mutex
	completedCount := 0
	notifyProgress := func(result Result) {
		progressMutex.Lock()
		defer progressMutex.Unlock()
		completedCount++
		if options.Progress != nil {
			options.Progress(ProgressUpdate{Result: result, Completed: completedCount, Total: len(tasks)})
		}
	}

	var workerGroup sync.WaitGroup
	for workerIndex := 0; workerIndex < parallel; workerIndex++ {
		workerGroup.Add(1)
		go func() {
			defer workerGroup.Done()
			for queued := range taskQueue {
				result := pipeline.executeTask(executionContext, queued.task, options, timeout)
				results[queued.position] = result
				notifyProgress(result)
			}
		}()
	}

	// Dispatch stops on cancellation; tasks never handed to a worker are
	// recorded as failed so the stats fold still covers every input entry.
	for position, task := range tasks {
		select {
		case <-executionContext.Done():
			result := Result{Identifier: task.Identifier, TargetPath: task.TargetPath, Status: StatusFailed, Message: cancelledMessageConstant}
			results[position] = result
			notifyProgress(result)
		case taskQueue <- indexedTask{position: position, task: task}:
		}
	}
	close(taskQueue)
	workerGroup.Wait()

	return results, ComputeStats(results), nil
}

func (pipeline *Pipeline) buildTasks(identifiers []identifier.Identifier, options Options) []Task {
	tasks := make([]Task, 0, len(identifiers))
	for _, repository := range identifiers {
		tasks = append(tasks, Task{
			Identifier: repository,
			CloneURL:   ResolveCloneURL(repository, options.Transport, pipeline.sshProbe),
			TargetPath: filepath.Join(options.TargetDirectory, repository.Owner, repository.Name),
			Branch:     options.Branch,
			Depth:      options.Depth,
		})
	}
	return tasks
}

// executeTask runs one task to completion. Panics inside the runner are
// converted into failed results so sibling workers keep draining the queue.
func (pipeline *Pipeline) executeTask(executionContext context.Context, task Task, options Options, timeout time.Duration) (result Result) {
	result = Result{Identifier: task.Identifier, TargetPath: task.TargetPath}

	defer func() {
		if recovered := recover(); recovered != nil {
			result.Status = StatusFailed
			result.Message = fmt.Sprintf(workerPanicTemplateConstant, recovered)
		}
	}()

	if options.SkipExisting && pathExistsNonEmpty(task.TargetPath) {
		result.Status = StatusSkipped
		result.Message = skippedExistingMessageConstant
		return result
	}

	taskContext, cancelTask := context.WithTimeout(executionContext, timeout)
	defer cancelTask()

	cloneError := pipeline.runner.Clone(taskContext, task)
	if cloneError != nil {
		result.Status = StatusFailed
		result.Message = cloneError.Error()
		if options.CleanupFailures {
			pipeline.cleanupTarget(task)
		}
		return result
	}

	result.Status = StatusSuccess
	return result
}

func (pipeline *Pipeline) cleanupTarget(task Task) {
	removeError := os.RemoveAll(task.TargetPath)
	if removeError != nil {
		pipeline.logger.Warn(
			cleanupFailedMessageConstant,
			zap.String(logFieldRepositoryConstant, task.Identifier.String()),
			zap.String(logFieldTargetPathConstant, task.TargetPath),
			zap.Error(removeError),
		)
	}
}

func pathExistsNonEmpty(path string) bool {
	entries, readError := os.ReadDir(path)
	if readError != nil {
		return false
	}
	return len(entries) > 0
}
