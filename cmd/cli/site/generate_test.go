package site_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ghfolio/ghfolio/cmd/cli/site"
	"github.com/ghfolio/ghfolio/internal/extract"
)

func TestSiteGroupRegistersGenerate(testInstance *testing.T) {
	builder := site.SiteCommandGroupBuilder{}

	command, buildError := builder.Build()

	require.NoError(testInstance, buildError)
	require.Equal(testInstance, "site", command.Name())
	require.Len(testInstance, command.Commands(), 1)
	require.Equal(testInstance, "generate", command.Commands()[0].Name())
}

func TestPageGroupRegistersGenerate(testInstance *testing.T) {
	builder := site.PageCommandGroupBuilder{}

	command, buildError := builder.Build()

	require.NoError(testInstance, buildError)
	require.Equal(testInstance, "page", command.Name())
	require.Len(testInstance, command.Commands(), 1)
}

func TestSiteGenerateWritesThemedDocument(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	recordsPath := filepath.Join(temporaryDirectory, "records.json")
	outputPath := filepath.Join(temporaryDirectory, "index.html")

	records := []extract.Record{
		{Name: "alpha", FullName: "acme/alpha", Description: "Terminal dashboard", URL: "https://github.com/acme/alpha", Stars: 12, Language: "Go", Category: "CLI Tools"},
	}
	require.NoError(testInstance, extract.SaveRecords(records, recordsPath))

	builder := site.SiteGenerateCommandBuilder{}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{"--input", recordsPath, "--output", outputPath, "--title", "Acme Projects", "--theme", "resume"})

	require.NoError(testInstance, command.Execute())

	document, readError := os.ReadFile(outputPath)
	require.NoError(testInstance, readError)
	require.Contains(testInstance, string(document), "Acme Projects")
	require.Contains(testInstance, string(document), "https://github.com/acme/alpha")
	require.Contains(testInstance, string(document), "#0f766e")
}

func TestPageGenerateRejectsMalformedIdentifier(testInstance *testing.T) {
	builder := site.PageGenerateCommandBuilder{}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{"not-a-repository"})

	require.Error(testInstance, command.Execute())
}
