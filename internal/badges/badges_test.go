package badges_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ghfolio/ghfolio/internal/badges"
	"github.com/ghfolio/ghfolio/internal/githubapi"
)

func TestEscapeDoublesSeparatorsAndEncodesSpaces(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "machine-learning", expected: "machine--learning"},
		{input: "snake_case", expected: "snake__case"},
		{input: "two words", expected: "two%20words"},
		{input: "mixed-up_name here", expected: "mixed--up__name%20here"},
		{input: "plain", expected: "plain"},
	}

	for _, testCase := range testCases {
		require.Equal(t, testCase.expected, badges.Escape(testCase.input))
	}
}

func TestTopicBadgesFlatSquare(t *testing.T) {
	built := badges.TopicBadges([]string{"python", "cli"}, badges.StyleFlatSquare)
	require.Len(t, built, 2)

	require.Equal(t, "https://img.shields.io/badge/topic-python-blue?style=flat-square", built[0].URL)
	require.Equal(t, "https://img.shields.io/badge/topic-cli-blue?style=flat-square", built[1].URL)
	for _, badge := range built {
		require.Contains(t, badge.Markdown(), "![topic](https://img.shields.io/badge/topic-")
	}
}

func TestTopicBadgesEscapeSeparatorsInsideTopics(t *testing.T) {
	built := badges.TopicBadges([]string{"machine-learning", "data_science"}, badges.StyleFlatSquare)
	require.Equal(t, "https://img.shields.io/badge/topic-machine--learning-blue?style=flat-square", built[0].URL)
	require.Equal(t, "https://img.shields.io/badge/topic-data__science-blue?style=flat-square", built[1].URL)
}

func TestStaticOmitsStyleQueryForFlat(t *testing.T) {
	flat := badges.Static("language", "Go", "blue", badges.StyleFlat)
	require.Equal(t, "https://img.shields.io/badge/language-Go-blue", flat.URL)

	plastic := badges.Static("language", "Go", "blue", badges.StylePlastic)
	require.Equal(t, "https://img.shields.io/badge/language-Go-blue?style=plastic", plastic.URL)
}

func TestValidateStyle(t *testing.T) {
	for _, style := range []string{"", badges.StyleFlat, badges.StyleFlatSquare, badges.StylePlastic, badges.StyleForTheBadge} {
		require.NoError(t, badges.ValidateStyle(style))
	}
	require.Error(t, badges.ValidateStyle("neon"))
}

func TestForRepositoryBuildsDefaultSet(t *testing.T) {
	repository := githubapi.Repository{
		FullName:    "acme/toolkit",
		Language:    "Go",
		LicenseName: "MIT License",
		Topics:      []string{"cli"},
	}

	built := badges.ForRepository(repository, badges.StyleFlat)
	require.Len(t, built, 4)
	require.Contains(t, built[0].URL, "language-Go")
	require.Contains(t, built[1].URL, "license-MIT%20License")
	require.Contains(t, built[2].URL, "github/stars/acme/toolkit?style=social")
	require.Contains(t, built[3].URL, "topic-cli")

	line := badges.MarkdownLine(built)
	require.Contains(t, line, ") ![")
}
