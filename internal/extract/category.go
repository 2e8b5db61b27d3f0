package extract

import (
	"strings"

	"github.com/ghfolio/ghfolio/internal/githubapi"
)

// Category names produced by inference.
const (
	CategoryLibraries       = "Libraries"
	CategoryCLITools        = "CLI Tools"
	CategoryWebApplications = "Web Applications"
	CategoryAPIs            = "APIs"
	CategoryLearning        = "Learning Resources"
	CategoryDocumentation   = "Documentation"
	CategoryTemplates       = "Templates"
	CategoryOther           = "Other Projects"
)

// Confidence levels attached to inference outcomes. Topic matches are
// explicit author intent; name and description matches are textual guesses;
// the language bucket is a fallback.
const (
	confidenceTopicConstant    = 0.9
	confidenceTextConstant     = 0.7
	confidenceLanguageConstant = 0.5
	confidenceNoneConstant     = 0.3
)

var topicCategories = map[string]string{
	"library":       CategoryLibraries,
	"cli":           CategoryCLITools,
	"web-app":       CategoryWebApplications,
	"api":           CategoryAPIs,
	"tutorial":      CategoryLearning,
	"education":     CategoryLearning,
	"documentation": CategoryDocumentation,
	"template":      CategoryTemplates,
}

var languageCategories = map[string]string{
	"python":     "Python Projects",
	"javascript": "JavaScript Projects",
	"typescript": "TypeScript Projects",
	"rust":       "Rust Projects",
	"go":         "Go Projects",
}

func containsAny(haystack string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

// InferCategory derives a display category for a repository from its topics,
// then its name and description, then its primary language.
func InferCategory(repository githubapi.Repository) (string, float64, string) {
	loweredName := strings.ToLower(repository.Name)
	loweredDescription := strings.ToLower(repository.Description)

	for _, topic := range repository.Topics {
		if category, matched := topicCategories[strings.ToLower(topic)]; matched {
			return category, confidenceTopicConstant, "topic " + strings.ToLower(topic)
		}
	}

	switch {
	case containsAny(loweredName, "template", "boilerplate", "starter"):
		return CategoryTemplates, confidenceTextConstant, "name suggests a template"
	case containsAny(loweredName, "api", "service"):
		return CategoryAPIs, confidenceTextConstant, "name suggests an API"
	case containsAny(loweredDescription, "cli", "command-line", "terminal"):
		return CategoryCLITools, confidenceTextConstant, "description mentions a command-line tool"
	case containsAny(loweredDescription, "library", "package", "module"):
		return CategoryLibraries, confidenceTextConstant, "description mentions a library"
	case containsAny(loweredDescription, "web app", "webapp", "website"):
		return CategoryWebApplications, confidenceTextConstant, "description mentions a web application"
	case containsAny(loweredDescription, "tutorial", "learn", "course"):
		return CategoryLearning, confidenceTextConstant, "description mentions learning material"
	}

	if category, matched := languageCategories[strings.ToLower(repository.Language)]; matched {
		return category, confidenceLanguageConstant, "primary language " + repository.Language
	}
	return CategoryOther, confidenceNoneConstant, "no signal matched"
}
