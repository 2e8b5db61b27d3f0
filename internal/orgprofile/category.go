package orgprofile

import (
	"strings"

	"github.com/ghfolio/ghfolio/internal/githubapi"
)

const fallbackCategoryConstant = "Other Projects"

var topicCategories = map[string]string{
	"library":       "Libraries",
	"cli":           "CLI Tools",
	"web-app":       "Web Applications",
	"api":           "APIs",
	"tutorial":      "Learning Resources",
	"education":     "Learning Resources",
	"documentation": "Documentation",
	"template":      "Templates",
}

var languageCategories = map[string]string{
	"python":     "Python Projects",
	"javascript": "JavaScript Projects",
	"typescript": "TypeScript Projects",
	"rust":       "Rust Projects",
	"go":         "Go Projects",
}

// topicCategoryOrder fixes lookup order so inference stays deterministic.
var topicCategoryOrder = []string{
	"library", "cli", "web-app", "api", "tutorial", "education", "documentation", "template",
}

// InferCategory assigns a display category from topics, naming patterns, and
// language, in that order of confidence.
func InferCategory(repository githubapi.Repository) string {
	loweredName := strings.ToLower(repository.Name)
	loweredDescription := strings.ToLower(repository.Description)

	topicSet := make(map[string]bool, len(repository.Topics))
	for _, topic := range repository.Topics {
		topicSet[strings.ToLower(topic)] = true
	}
	for _, topic := range topicCategoryOrder {
		if topicSet[topic] {
			return topicCategories[topic]
		}
	}

	if containsAny(loweredName, "template", "boilerplate", "starter") {
		return "Templates"
	}
	if containsAny(loweredName, "api", "service") {
		return "APIs"
	}
	if containsAny(loweredDescription, "cli", "command-line", "terminal") {
		return "CLI Tools"
	}
	if containsAny(loweredDescription, "library", "package", "module") {
		return "Libraries"
	}
	if containsAny(loweredDescription, "web app", "webapp", "website") {
		return "Web Applications"
	}
	if containsAny(loweredDescription, "tutorial", "learn", "course") {
		return "Learning Resources"
	}

	if category, known := languageCategories[strings.ToLower(repository.Language)]; known {
		return category
	}
	return fallbackCategoryConstant
}

func containsAny(haystack string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
