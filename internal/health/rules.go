package health

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Named rule sets.
const (
	RuleSetGeneral      = "general"
	RuleSetAcademic     = "academic"
	RuleSetProfessional = "professional"
)

const (
	minimumDescriptionLengthConstant = 20
	minimumTopicCountConstant        = 3
	minimumReadmeBytesConstant       = 500
	unknownRuleSetTemplateConstant   = "health: unknown rule set %q"
	overridesReadTemplateConstant    = "health: read overrides: %w"
	overridesParseTemplateConstant   = "health: parse overrides: %w"
)

func hasRootEntry(evidence Evidence, names ...string) bool {
	for _, entry := range evidence.RootEntries {
		for _, name := range names {
			if strings.EqualFold(entry.Path, name) {
				return true
			}
		}
	}
	return false
}

func baseChecks() []Check {
	return []Check{
		{
			Name:          "has_description",
			Category:      CategoryDocumentation,
			Weight:        15,
			FixSuggestion: "Add a one-sentence description in the repository settings.",
			Evaluate: func(evidence Evidence) (bool, string) {
				if strings.TrimSpace(evidence.Repository.Description) == "" {
					return false, "repository has no description"
				}
				return true, "description present"
			},
		},
		{
			Name:          "description_length",
			Category:      CategoryDocumentation,
			Weight:        5,
			FixSuggestion: "Expand the description to at least 20 characters.",
			Evaluate: func(evidence Evidence) (bool, string) {
				length := len(strings.TrimSpace(evidence.Repository.Description))
				if length < minimumDescriptionLengthConstant {
					return false, fmt.Sprintf("description is %d characters, want at least %d", length, minimumDescriptionLengthConstant)
				}
				return true, "description is descriptive"
			},
		},
		{
			Name:          "has_license",
			Category:      CategoryCompliance,
			Weight:        15,
			FixSuggestion: "Add a LICENSE file (ghfolio repo license can do this).",
			Evaluate: func(evidence Evidence) (bool, string) {
				if evidence.Repository.LicenseKey == "" {
					return false, "no license detected"
				}
				return true, "licensed under " + evidence.Repository.LicenseName
			},
		},
		{
			Name:          "has_topics",
			Category:      CategoryDiscoverability,
			Weight:        10,
			FixSuggestion: "Tag the repository with at least 3 topics.",
			Evaluate: func(evidence Evidence) (bool, string) {
				count := len(evidence.Repository.Topics)
				if count < minimumTopicCountConstant {
					return false, fmt.Sprintf("%d topics, want at least %d", count, minimumTopicCountConstant)
				}
				return true, fmt.Sprintf("%d topics set", count)
			},
		},
		{
			Name:          "has_readme",
			Category:      CategoryDocumentation,
			Weight:        15,
			FixSuggestion: "Add a README.md (ghfolio repo readme can generate one).",
			Evaluate: func(evidence Evidence) (bool, string) {
				if evidence.ReadmeMissing || strings.TrimSpace(evidence.ReadmeContent) == "" {
					return false, "no README found"
				}
				return true, "README present"
			},
		},
		{
			Name:          "readme_length",
			Category:      CategoryDocumentation,
			Weight:        10,
			FixSuggestion: "Grow the README beyond a stub (over 500 bytes).",
			Evaluate: func(evidence Evidence) (bool, string) {
				size := len(evidence.ReadmeContent)
				if size <= minimumReadmeBytesConstant {
					return false, fmt.Sprintf("README is %d bytes, want more than %d", size, minimumReadmeBytesConstant)
				}
				return true, "README has substance"
			},
		},
		{
			Name:          "has_ci_workflow",
			Category:      CategoryAutomation,
			Weight:        10,
			FixSuggestion: "Add a GitHub Actions workflow under .github/workflows.",
			Evaluate: func(evidence Evidence) (bool, string) {
				if evidence.WorkflowsMissing || len(evidence.Workflows) == 0 {
					return false, "no CI workflows configured"
				}
				return true, fmt.Sprintf("%d workflow(s) configured", len(evidence.Workflows))
			},
		},
		{
			Name:          "has_tests_directory",
			Category:      CategoryQuality,
			Weight:        10,
			FixSuggestion: "Add an automated test suite in a tests/ directory.",
			Evaluate: func(evidence Evidence) (bool, string) {
				if hasRootEntry(evidence, "test", "tests", "spec", "specs", "__tests__") {
					return true, "test directory present"
				}
				return false, "no test directory found at the repository root"
			},
		},
		{
			Name:          "has_homepage",
			Category:      CategoryDiscoverability,
			Weight:        5,
			FixSuggestion: "Link a homepage or documentation site in the settings.",
			Evaluate: func(evidence Evidence) (bool, string) {
				if strings.TrimSpace(evidence.Repository.Homepage) == "" {
					return false, "no homepage set"
				}
				return true, "homepage set"
			},
		},
	}
}

func maintenanceCheck() Check {
	return Check{
		Name:          "actively_maintained",
		Category:      CategoryMaintenance,
		Weight:        5,
		FixSuggestion: "Unarchive the repository or exclude it from the portfolio.",
		Evaluate: func(evidence Evidence) (bool, string) {
			if evidence.Repository.Archived {
				return false, "repository is archived"
			}
			return true, "repository is active"
		},
	}
}

func citationCheck() Check {
	return Check{
		Name:          "has_citation_file",
		Category:      CategoryCompliance,
		Weight:        10,
		FixSuggestion: "Add a CITATION.cff so the work can be cited.",
		Evaluate: func(evidence Evidence) (bool, string) {
			if hasRootEntry(evidence, "CITATION.cff", "CITATION", "CITATION.md") {
				return true, "citation file present"
			}
			return false, "no citation file found"
		},
	}
}

func conductCheck() Check {
	return Check{
		Name:          "has_code_of_conduct",
		Category:      CategoryCompliance,
		Weight:        5,
		FixSuggestion: "Add a CODE_OF_CONDUCT.md.",
		Evaluate: func(evidence Evidence) (bool, string) {
			if hasRootEntry(evidence, "CODE_OF_CONDUCT.md", "CODE_OF_CONDUCT") {
				return true, "code of conduct present"
			}
			return false, "no code of conduct found"
		},
	}
}

func contributingCheck() Check {
	return Check{
		Name:          "has_contributing_guide",
		Category:      CategoryQuality,
		Weight:        10,
		FixSuggestion: "Add a CONTRIBUTING.md describing how to contribute.",
		Evaluate: func(evidence Evidence) (bool, string) {
			if hasRootEntry(evidence, "CONTRIBUTING.md", "CONTRIBUTING") {
				return true, "contributing guide present"
			}
			return false, "no contributing guide found"
		},
	}
}

// ChecksForRuleSet returns the ordered checks of a named rule set. The
// academic set drops the archived-repository penalty since finished research
// code is routinely archived.
func ChecksForRuleSet(ruleSet string) ([]Check, error) {
	switch strings.ToLower(strings.TrimSpace(ruleSet)) {
	case RuleSetGeneral, "":
		return append(baseChecks(), maintenanceCheck()), nil
	case RuleSetAcademic:
		return append(baseChecks(), citationCheck()), nil
	case RuleSetProfessional:
		return append(baseChecks(), maintenanceCheck(), conductCheck(), contributingCheck()), nil
	default:
		return nil, fmt.Errorf(unknownRuleSetTemplateConstant, ruleSet)
	}
}

// WeightOverrides remaps check weights per rule set, keyed by rule set name
// then check name.
type WeightOverrides map[string]map[string]int

// LoadWeightOverrides reads a YAML overrides file.
func LoadWeightOverrides(path string) (WeightOverrides, error) {
	contents, readError := os.ReadFile(path)
	if readError != nil {
		return nil, fmt.Errorf(overridesReadTemplateConstant, readError)
	}

	var overrides WeightOverrides
	if parseError := yaml.Unmarshal(contents, &overrides); parseError != nil {
		return nil, fmt.Errorf(overridesParseTemplateConstant, parseError)
	}
	return overrides, nil
}

// Apply rewrites the weights of matching checks in place.
func (overrides WeightOverrides) Apply(ruleSet string, checks []Check) {
	ruleOverrides, exists := overrides[ruleSet]
	if !exists {
		return
	}
	for index := range checks {
		if weight, overridden := ruleOverrides[checks[index].Name]; overridden && weight >= 0 {
			checks[index].Weight = weight
		}
	}
}
