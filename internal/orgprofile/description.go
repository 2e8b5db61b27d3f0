package orgprofile

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ghfolio/ghfolio/internal/githubapi"
	"github.com/ghfolio/ghfolio/internal/llm"
)

const (
	descriptionMaxTokensConstant      = 500
	descriptionTemperatureConstant    = 0.7
	summaryRepositoryCapConstant      = 20
	focusAreaCapConstant              = 5
	llmFallbackMessageConstant        = "language model description unavailable, using fallback"
	descriptionPromptTemplateConstant = `Based on the following GitHub organization information, generate a compelling profile description.

%s

Respond with valid JSON containing:
- "title": A short, catchy title for the org (2-5 words)
- "tagline": A one-sentence description of what the org does
- "focus_areas": Array of 3-5 key focus areas/technologies
- "mission": A 1-2 sentence mission statement

JSON only, no markdown code blocks:`
)

// Description summarizes an organization for its profile header.
type Description struct {
	Title      string   `json:"title"`
	Tagline    string   `json:"tagline"`
	FocusAreas []string `json:"focus_areas"`
	Mission    string   `json:"mission"`
}

// GenerateDescription drafts the profile description with the language model
// when one is configured, falling back to a rule-based summary on any failure.
func (service *Service) GenerateDescription(executionContext context.Context, organization githubapi.Organization, repositories []githubapi.Repository) Description {
	if service.completer != nil {
		description, llmError := service.describeWithModel(executionContext, organization, repositories)
		if llmError == nil {
			return description
		}
		service.logger.Warn(llmFallbackMessageConstant, zap.String(logFieldOrganizationConstant, organization.Login), zap.Error(llmError))
	}
	return FallbackDescription(organization, repositories)
}

func (service *Service) describeWithModel(executionContext context.Context, organization githubapi.Organization, repositories []githubapi.Repository) (Description, error) {
	var summaryLines []string
	for index, repository := range repositories {
		if index == summaryRepositoryCapConstant {
			break
		}
		description := repository.Description
		if description == "" {
			description = "No description"
		}
		language := repository.Language
		if language == "" {
			language = "Unknown"
		}
		summaryLines = append(summaryLines, fmt.Sprintf("- %s: %s [%s] (%d stars)", repository.Name, description, language, repository.Stars))
	}

	organizationDescription := organization.Description
	if organizationDescription == "" {
		organizationDescription = "No description"
	}
	blog := organization.Blog
	if blog == "" {
		blog = "None"
	}
	location := organization.Location
	if location == "" {
		location = "Unknown"
	}

	contextBlock := fmt.Sprintf(`Organization: %s
Description: %s
Blog: %s
Location: %s
Public Repositories: %d

Top Repositories:
%s`, organization.Login, organizationDescription, blog, location, organization.PublicRepositories, strings.Join(summaryLines, "\n"))

	responseText, completionError := service.completer.Complete(executionContext, llm.Request{
		MaxTokens:   descriptionMaxTokensConstant,
		Temperature: descriptionTemperatureConstant,
		Prompt:      fmt.Sprintf(descriptionPromptTemplateConstant, contextBlock),
	})
	if completionError != nil {
		return Description{}, completionError
	}

	var parsed Description
	if unmarshalError := json.Unmarshal([]byte(strings.TrimSpace(responseText)), &parsed); unmarshalError != nil {
		return Description{}, unmarshalError
	}
	if parsed.Title == "" {
		parsed.Title = organization.Login
	}
	if parsed.Tagline == "" {
		parsed.Tagline = organization.Description
	}
	return parsed, nil
}

// FallbackDescription builds a rule-based description from repository
// languages and topics.
func FallbackDescription(organization githubapi.Organization, repositories []githubapi.Repository) Description {
	organizationName := organization.Login
	if organizationName == "" {
		organizationName = "Organization"
	}

	languageCounts := make(map[string]int)
	topicCounts := make(map[string]int)
	for _, repository := range repositories {
		if repository.Language != "" {
			languageCounts[repository.Language]++
		}
		for _, topic := range repository.Topics {
			topicCounts[topic]++
		}
	}

	focusAreas := topCounted(languageCounts, focusAreaCapConstant)
	for _, topic := range topCounted(topicCounts, 3) {
		focusAreas = append(focusAreas, titleCase(strings.ReplaceAll(topic, "-", " ")))
	}
	if len(focusAreas) > focusAreaCapConstant {
		focusAreas = focusAreas[:focusAreaCapConstant]
	}

	tagline := organization.Description
	if tagline == "" {
		tagline = fmt.Sprintf("A collection of %d repositories", len(repositories))
	}

	mission := "Building and maintaining open source projects."
	if len(focusAreas) > 0 {
		highlighted := focusAreas
		if len(highlighted) > 3 {
			highlighted = highlighted[:3]
		}
		mission = fmt.Sprintf("Building and maintaining open source projects focused on %s.", strings.Join(highlighted, ", "))
	}

	return Description{
		Title:      organizationName,
		Tagline:    tagline,
		FocusAreas: focusAreas,
		Mission:    mission,
	}
}

// topCounted returns the highest-count keys, largest first, ties broken
// alphabetically for stable output.
func topCounted(counts map[string]int, limit int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(left int, right int) bool {
		if counts[keys[left]] != counts[keys[right]] {
			return counts[keys[left]] > counts[keys[right]]
		}
		return keys[left] < keys[right]
	})
	if len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}

func titleCase(text string) string {
	words := strings.Fields(text)
	for index, word := range words {
		words[index] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
