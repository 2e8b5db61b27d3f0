package transfer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ghfolio/ghfolio/cmd/cli/transfer"
)

func TestCommandGroupRegistersSubcommands(testInstance *testing.T) {
	builder := transfer.CommandGroupBuilder{}

	command, buildError := builder.Build()

	require.NoError(testInstance, buildError)
	require.Equal(testInstance, "transfer", command.Name())

	registered := map[string]bool{}
	for _, subcommand := range command.Commands() {
		registered[subcommand.Name()] = true
	}
	require.True(testInstance, registered["initiate"])
	require.True(testInstance, registered["list"])
	require.True(testInstance, registered["accept"])
}

func TestInitiateCommandRequiresNewOwner(testInstance *testing.T) {
	builder := transfer.InitiateCommandBuilder{}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetArgs([]string{"acme/alpha"})
	require.Error(testInstance, command.Execute())
}

func TestAcceptCommandDeclaresOwnerFilter(testInstance *testing.T) {
	builder := transfer.AcceptCommandBuilder{}

	command, buildError := builder.Build()

	require.NoError(testInstance, buildError)
	require.NotNil(testInstance, command.Flags().Lookup("owner"))
	require.NotNil(testInstance, command.Flags().Lookup("dry-run"))
}
