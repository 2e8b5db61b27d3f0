package repo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ghfolio/ghfolio/cmd/cli/repo"
	"github.com/ghfolio/ghfolio/internal/health"
)

func TestCommandGroupRegistersSubcommands(testInstance *testing.T) {
	builder := repo.CommandGroupBuilder{}

	command, buildError := builder.Build()

	require.NoError(testInstance, buildError)
	require.Equal(testInstance, "repo", command.Name())

	registered := map[string]bool{}
	for _, subcommand := range command.Commands() {
		registered[subcommand.Name()] = true
	}
	for _, expectedName := range []string{"list", "extract", "health", "clone", "describe", "readme", "license", "badges"} {
		require.True(testInstance, registered[expectedName], "missing subcommand %s", expectedName)
	}
}

func TestCloneCommandDeclaresPipelineFlags(testInstance *testing.T) {
	builder := repo.CloneCommandBuilder{}

	command, buildError := builder.Build()

	require.NoError(testInstance, buildError)
	for _, flagName := range []string{"target-dir", "branch", "depth", "parallel", "transport", "skip-existing", "cleanup", "timeout", "engine", "repos-file", "token"} {
		require.NotNil(testInstance, command.Flags().Lookup(flagName), "missing flag %s", flagName)
	}
}

func TestCloneCommandRejectsUnknownEngine(testInstance *testing.T) {
	builder := repo.CloneCommandBuilder{}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetArgs([]string{"acme/alpha", "--engine", "mercurial"})
	executionError := command.Execute()

	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "unknown clone engine")
}

func TestHealthCommandDeclaresScoringFlags(testInstance *testing.T) {
	builder := repo.HealthCommandBuilder{}

	command, buildError := builder.Build()

	require.NoError(testInstance, buildError)
	for _, flagName := range []string{"rule-set", "weights", "min-score", "json"} {
		require.NotNil(testInstance, command.Flags().Lookup(flagName), "missing flag %s", flagName)
	}

	ruleSetUsage := command.Flags().Lookup("rule-set").Usage
	for _, ruleSetName := range []string{health.RuleSetGeneral, health.RuleSetAcademic, health.RuleSetProfessional} {
		require.Contains(testInstance, ruleSetUsage, ruleSetName)
	}
}

func TestDescribeCommandRequiresRepositories(testInstance *testing.T) {
	builder := repo.DescribeCommandBuilder{}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetArgs(nil)
	executionError := command.Execute()

	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "no repositories provided")
}
