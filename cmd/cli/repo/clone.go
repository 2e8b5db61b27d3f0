package repo

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ghfolio/ghfolio/cmd/cli/dependencies"
	"github.com/ghfolio/ghfolio/internal/clone"
	"github.com/ghfolio/ghfolio/internal/execshell"
	"github.com/ghfolio/ghfolio/internal/identifier"
	"github.com/ghfolio/ghfolio/internal/output"
)

const (
	cloneUseConstant                = "clone [owner/name|owner/* ...]"
	cloneShortDescription           = "Clone repositories in parallel"
	cloneLongDescription            = "clone checks out each repository under target-dir/owner/name with a bounded worker pool, expanding owner/* wildcards through the API."
	flagTargetDirNameConstant       = "target-dir"
	flagTargetDirDescription        = "Base directory for checkouts"
	flagBranchNameConstant          = "branch"
	flagBranchDescriptionConstant   = "Branch to check out instead of the default"
	flagDepthNameConstant           = "depth"
	flagDepthDescriptionConstant    = "Shallow clone depth; zero clones full history"
	flagParallelNameConstant        = "parallel"
	flagParallelDescription         = "Maximum concurrent clone operations"
	flagTransportNameConstant       = "transport"
	flagTransportDescription        = "Clone transport: auto, ssh, or https"
	flagSkipExistingNameConstant    = "skip-existing"
	flagSkipExistingDescription     = "Skip targets that already exist and are non-empty"
	flagCleanupNameConstant         = "cleanup"
	flagCleanupDescriptionConstant  = "Remove partially written directories after failed clones"
	flagTimeoutNameConstant         = "timeout"
	flagTimeoutDescriptionConstant  = "Per-clone timeout"
	flagEngineNameConstant          = "engine"
	flagEngineDescriptionConstant   = "Clone engine: git (external binary) or gogit (in process)"
	cloneProgressDescription        = "Cloning repositories"
	cloneResultTemplateConstant     = "%-10s %s"
	cloneStatsTemplateConstant      = "%d cloned, %d skipped, %d failed (%d total)"
	defaultTargetDirectoryConstant  = "."
	defaultTransportPolicyConstant  = string(clone.TransportAuto)
	wildcardSuffixConstant          = "/*"
	failedResultDetailTemplateConst = "%-10s %s: %s"
)

// CloneCommandBuilder assembles the repo clone command.
type CloneCommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the clone command.
func (builder *CloneCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   cloneUseConstant,
		Short: cloneShortDescription,
		Long:  cloneLongDescription,
		RunE:  builder.run,
	}

	command.Flags().String(flagTokenNameConstant, "", flagTokenDescriptionConstant)
	command.Flags().String(flagReposFileNameConstant, "", flagReposFileDescription)
	command.Flags().String(flagTargetDirNameConstant, defaultTargetDirectoryConstant, flagTargetDirDescription)
	command.Flags().String(flagBranchNameConstant, "", flagBranchDescriptionConstant)
	command.Flags().Int(flagDepthNameConstant, 0, flagDepthDescriptionConstant)
	command.Flags().Int(flagParallelNameConstant, clone.DefaultParallelism, flagParallelDescription)
	command.Flags().String(flagTransportNameConstant, defaultTransportPolicyConstant, flagTransportDescription)
	command.Flags().Bool(flagSkipExistingNameConstant, false, flagSkipExistingDescription)
	command.Flags().Bool(flagCleanupNameConstant, false, flagCleanupDescriptionConstant)
	command.Flags().Duration(flagTimeoutNameConstant, clone.DefaultCloneTimeout, flagTimeoutDescriptionConstant)
	command.Flags().String(flagEngineNameConstant, string(clone.EngineGit), flagEngineDescriptionConstant)

	return command, nil
}

func (builder *CloneCommandBuilder) run(command *cobra.Command, arguments []string) error {
	reposFilePath, _ := command.Flags().GetString(flagReposFileNameConstant)
	tokens, tokensError := dependencies.CollectRepositoryTokens(arguments, reposFilePath)
	if tokensError != nil {
		return tokensError
	}

	logger := resolveLogger(builder.LoggerProvider)

	expandedTokens, expandError := builder.expandWildcards(command, tokens, logger)
	if expandError != nil {
		return expandError
	}

	transportValue, _ := command.Flags().GetString(flagTransportNameConstant)
	transportPolicy, transportError := clone.ParseTransportPolicy(transportValue)
	if transportError != nil {
		return transportError
	}

	engineValue, _ := command.Flags().GetString(flagEngineNameConstant)
	cloneRunner, runnerError := builder.resolveRunner(engineValue, logger)
	if runnerError != nil {
		return runnerError
	}

	pipeline, pipelineError := clone.NewPipeline(cloneRunner, clone.DefaultSSHProbe, logger)
	if pipelineError != nil {
		return pipelineError
	}

	targetDirectory, _ := command.Flags().GetString(flagTargetDirNameConstant)
	branchValue, _ := command.Flags().GetString(flagBranchNameConstant)
	depthValue, _ := command.Flags().GetInt(flagDepthNameConstant)
	parallelValue, _ := command.Flags().GetInt(flagParallelNameConstant)
	skipExistingValue, _ := command.Flags().GetBool(flagSkipExistingNameConstant)
	cleanupValue, _ := command.Flags().GetBool(flagCleanupNameConstant)
	timeoutValue, _ := command.Flags().GetDuration(flagTimeoutNameConstant)

	progressBar := dependencies.NewProgressBar(len(expandedTokens), cloneProgressDescription)

	results, stats, runError := pipeline.Run(command.Context(), clone.Options{
		Tokens:          expandedTokens,
		TargetDirectory: targetDirectory,
		Branch:          branchValue,
		Depth:           depthValue,
		Transport:       transportPolicy,
		Parallel:        parallelValue,
		SkipExisting:    skipExistingValue,
		CleanupFailures: cleanupValue,
		Timeout:         timeoutValue,
		Progress: func(update clone.ProgressUpdate) {
			_ = progressBar.Add(1)
		},
	})
	if runError != nil {
		return runError
	}

	sink := output.NewConsoleSink(command.OutOrStdout())
	for _, result := range results {
		switch result.Status {
		case clone.StatusFailed:
			sink.Error(failedResultDetailTemplateConst, result.Status, result.Identifier.String(), result.Message)
		case clone.StatusSkipped:
			sink.Warning(cloneResultTemplateConstant, result.Status, result.Identifier.String())
		default:
			sink.Success(cloneResultTemplateConstant, result.Status, result.Identifier.String())
		}
	}
	sink.Line(cloneStatsTemplateConstant, stats.Successful, stats.Skipped, stats.Failed, stats.Total)
	return nil
}

// resolveRunner selects the clone engine. The shell executor is only built
// for the git engine; gogit clones in process.
func (builder *CloneCommandBuilder) resolveRunner(engineValue string, logger *zap.Logger) (clone.Runner, error) {
	engine, engineError := clone.ParseEngine(engineValue)
	if engineError != nil {
		return nil, engineError
	}

	if engine == clone.EngineGoGit {
		return clone.NewGoGitRunner(), nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, executorError := execshell.NewShellExecutor(logger, commandRunner)
	if executorError != nil {
		return nil, executorError
	}
	return clone.NewGitRunner(shellExecutor), nil
}

// expandWildcards resolves owner/* entries through the API. The client is
// only constructed when a wildcard is actually present, so plain clones work
// without a token.
func (builder *CloneCommandBuilder) expandWildcards(command *cobra.Command, tokens []string, logger *zap.Logger) ([]string, error) {
	wildcardPresent := false
	for _, token := range tokens {
		if strings.HasSuffix(token, wildcardSuffixConstant) {
			wildcardPresent = true
			break
		}
	}
	if !wildcardPresent {
		return tokens, nil
	}

	tokenValue, _ := command.Flags().GetString(flagTokenNameConstant)
	client, clientError := dependencies.ResolveGitHubClient(tokenValue, logger)
	if clientError != nil {
		return nil, clientError
	}

	identifiers, expandError := identifier.Expand(command.Context(), tokens, client)
	if expandError != nil {
		return nil, expandError
	}

	expanded := make([]string, 0, len(identifiers))
	for _, expandedIdentifier := range identifiers {
		expanded = append(expanded, expandedIdentifier.String())
	}
	return expanded, nil
}
