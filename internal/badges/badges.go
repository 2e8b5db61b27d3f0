package badges

import (
	"fmt"
	"strings"

	"github.com/ghfolio/ghfolio/internal/githubapi"
)

// Style names accepted by shields.io.
const (
	StyleFlat        = "flat"
	StyleFlatSquare  = "flat-square"
	StylePlastic     = "plastic"
	StyleForTheBadge = "for-the-badge"
)

// Named badge colors used by the builders.
const (
	colorBlueConstant   = "blue"
	colorGreenConstant  = "green"
	colorYellowConstant = "yellow"
)

const (
	staticBadgeTemplateConstant   = "https://img.shields.io/badge/%s-%s-%s"
	socialBadgeTemplateConstant   = "https://img.shields.io/github/%s/%s?style=social"
	markdownImageTemplateConstant = "![%s](%s)"
	styleQueryTemplateConstant    = "?style=%s"
	unknownStyleTemplateConstant  = "badges: unknown style %q"
)

// ValidateStyle rejects style names shields.io does not know.
func ValidateStyle(style string) error {
	switch style {
	case "", StyleFlat, StyleFlatSquare, StylePlastic, StyleForTheBadge:
		return nil
	default:
		return fmt.Errorf(unknownStyleTemplateConstant, style)
	}
}

// Escape encodes a label or value segment for a shields.io static badge URL.
// Hyphens and underscores are segment separators in the badge path, so
// literal occurrences are doubled; spaces are percent-encoded.
func Escape(segment string) string {
	escaped := strings.ReplaceAll(segment, "-", "--")
	escaped = strings.ReplaceAll(escaped, "_", "__")
	return strings.ReplaceAll(escaped, " ", "%20")
}

// Badge is one rendered shields.io badge.
type Badge struct {
	Label string
	URL   string
}

// Markdown renders the badge as a markdown image link.
func (badge Badge) Markdown() string {
	return fmt.Sprintf(markdownImageTemplateConstant, badge.Label, badge.URL)
}

// Static builds a static label-value badge in the given style.
func Static(label string, value string, color string, style string) Badge {
	url := fmt.Sprintf(staticBadgeTemplateConstant, Escape(label), Escape(value), color)
	if style != "" && style != StyleFlat {
		url += fmt.Sprintf(styleQueryTemplateConstant, style)
	}
	return Badge{Label: label, URL: url}
}

// TopicBadges builds one static badge per topic.
func TopicBadges(topics []string, style string) []Badge {
	built := make([]Badge, 0, len(topics))
	for _, topic := range topics {
		built = append(built, Static("topic", topic, colorBlueConstant, style))
	}
	return built
}

// LanguageBadge builds a badge for the repository's primary language.
func LanguageBadge(language string, style string) Badge {
	return Static("language", language, colorBlueConstant, style)
}

// LicenseBadge builds a badge for the repository license.
func LicenseBadge(licenseName string, style string) Badge {
	return Static("license", licenseName, colorGreenConstant, style)
}

// StarsBadge builds the social star-count badge for a repository.
func StarsBadge(fullName string) Badge {
	return Badge{Label: "Stars", URL: fmt.Sprintf(socialBadgeTemplateConstant, "stars", fullName)}
}

// ForksBadge builds the social fork-count badge for a repository.
func ForksBadge(fullName string) Badge {
	return Badge{Label: "Forks", URL: fmt.Sprintf(socialBadgeTemplateConstant, "forks", fullName)}
}

// ForRepository builds the default badge set for a repository: language,
// license when present, stars, and one badge per topic.
func ForRepository(repository githubapi.Repository, style string) []Badge {
	var built []Badge
	if repository.Language != "" {
		built = append(built, LanguageBadge(repository.Language, style))
	}
	if repository.LicenseName != "" {
		built = append(built, LicenseBadge(repository.LicenseName, style))
	}
	built = append(built, StarsBadge(repository.FullName))
	built = append(built, TopicBadges(repository.Topics, style)...)
	return built
}

// MarkdownLine joins badges into a single markdown line.
func MarkdownLine(built []Badge) string {
	parts := make([]string, 0, len(built))
	for _, badge := range built {
		parts = append(parts, badge.Markdown())
	}
	return strings.Join(parts, " ")
}
