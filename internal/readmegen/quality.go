package readmegen

import (
	"regexp"
	"strings"
)

const qualityCheckCountConstant = 8

const (
	minimumIntroductionLengthConstant = 50
	minimumReadmeBytesConstant        = 500
	minimumSectionCountConstant       = 3
)

var (
	titlePattern        = regexp.MustCompile(`(?m)^#\s+.+`)
	installPattern      = regexp.MustCompile(`(?i)##?\s*(install|setup|getting started)`)
	usagePattern        = regexp.MustCompile(`(?i)##?\s*(usage|examples?|how to use)`)
	codeBlockPattern    = regexp.MustCompile("```[\\s\\S]*?```")
	sectionPattern      = regexp.MustCompile(`(?m)^##?\s+`)
	boilerplatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\A# \w+\s*\z`),
		regexp.MustCompile(`(?i)TODO`),
		regexp.MustCompile(`(?i)Add description here`),
		regexp.MustCompile(`(?i)This is a placeholder`),
	}
)

// AssessQuality scores README content between 0 and 1 across eight
// equal-weight checks and lists what each failed check found wanting. Empty
// content scores exactly 0.
func AssessQuality(content string) (float64, []string) {
	if strings.TrimSpace(content) == "" {
		return 0.0, []string{"No README found"}
	}

	var issues []string
	passed := 0

	if titlePattern.MatchString(content) {
		passed++
	} else {
		issues = append(issues, "Missing title")
	}

	paragraphs := strings.Split(content, "\n\n")
	if len(paragraphs) >= 2 && len(strings.TrimSpace(paragraphs[1])) > minimumIntroductionLengthConstant {
		passed++
	} else {
		issues = append(issues, "Missing or short description")
	}

	if installPattern.MatchString(content) {
		passed++
	} else {
		issues = append(issues, "Missing installation section")
	}

	if usagePattern.MatchString(content) {
		passed++
	} else {
		issues = append(issues, "Missing usage section")
	}

	if codeBlockPattern.MatchString(content) {
		passed++
	} else {
		issues = append(issues, "Missing code examples")
	}

	if len(content) > minimumReadmeBytesConstant {
		passed++
	} else {
		issues = append(issues, "Content too short (likely placeholder)")
	}

	if len(sectionPattern.FindAllString(content, -1)) >= minimumSectionCountConstant {
		passed++
	} else {
		issues = append(issues, "Few sections (needs more structure)")
	}

	isBoilerplate := false
	for _, pattern := range boilerplatePatterns {
		if pattern.MatchString(content) {
			isBoilerplate = true
			break
		}
	}
	if !isBoilerplate {
		passed++
	} else {
		issues = append(issues, "Appears to be placeholder/boilerplate")
	}

	return float64(passed) / float64(qualityCheckCountConstant), issues
}
