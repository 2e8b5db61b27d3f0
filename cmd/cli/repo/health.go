package repo

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ghfolio/ghfolio/cmd/cli/dependencies"
	"github.com/ghfolio/ghfolio/internal/health"
	"github.com/ghfolio/ghfolio/internal/output"
)

const (
	healthUseConstant              = "health [owner/name ...]"
	healthShortDescription         = "Score repositories against a health rule set"
	healthLongDescription          = "health fetches repository metadata, README, tree, and workflows and scores them against a named rule set."
	flagRuleSetNameConstant        = "rule-set"
	flagRuleSetDescriptionConstant = "Rule set to score against: general, academic, or professional"
	flagWeightsNameConstant        = "weights"
	flagWeightsDescription         = "Path to a YAML file overriding check weights"
	flagMinScoreNameConstant       = "min-score"
	flagMinScoreDescription        = "Fail when any repository scores under this percentage; zero disables"
	healthProgressDescription      = "Checking repositories"
	healthScoreTemplateConstant    = "%d/%d"
	healthPercentTemplateConstant  = "%.1f%%"
	belowMinimumTemplateConstant   = "%d of %d repositories under minimum score %.1f"
)

var healthTableHeaders = []string{"REPOSITORY", "GRADE", "SCORE", "PERCENT", "ISSUES"}

// HealthCommandBuilder assembles the repo health command.
type HealthCommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the health command.
func (builder *HealthCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   healthUseConstant,
		Short: healthShortDescription,
		Long:  healthLongDescription,
		RunE:  builder.run,
	}

	command.Flags().String(flagTokenNameConstant, "", flagTokenDescriptionConstant)
	command.Flags().String(flagReposFileNameConstant, "", flagReposFileDescription)
	command.Flags().String(flagRuleSetNameConstant, health.RuleSetGeneral, flagRuleSetDescriptionConstant)
	command.Flags().String(flagWeightsNameConstant, "", flagWeightsDescription)
	command.Flags().Float64(flagMinScoreNameConstant, 0, flagMinScoreDescription)
	command.Flags().Bool(flagJSONNameConstant, false, flagJSONDescriptionConstant)

	return command, nil
}

func (builder *HealthCommandBuilder) run(command *cobra.Command, arguments []string) error {
	identifiers, identifiersError := collectIdentifiers(command, arguments)
	if identifiersError != nil {
		return identifiersError
	}

	logger := resolveLogger(builder.LoggerProvider)
	tokenValue, _ := command.Flags().GetString(flagTokenNameConstant)
	client, clientError := dependencies.ResolveGitHubClient(tokenValue, logger)
	if clientError != nil {
		return clientError
	}

	var overrides health.WeightOverrides
	weightsPath, _ := command.Flags().GetString(flagWeightsNameConstant)
	if weightsPath != "" {
		loaded, loadError := health.LoadWeightOverrides(weightsPath)
		if loadError != nil {
			return loadError
		}
		overrides = loaded
	}

	ruleSetValue, _ := command.Flags().GetString(flagRuleSetNameConstant)
	checker, checkerError := health.NewChecker(client, ruleSetValue, overrides, logger)
	if checkerError != nil {
		return checkerError
	}

	sink := output.NewConsoleSink(command.OutOrStdout())
	progressBar := dependencies.NewProgressBar(len(identifiers), healthProgressDescription)

	reports := make([]health.Report, 0, len(identifiers))
	for _, repository := range identifiers {
		report, checkError := checker.CheckRepository(command.Context(), repository)
		_ = progressBar.Add(1)
		if checkError != nil {
			sink.Warning("%s: %v", repository.String(), checkError)
			continue
		}
		reports = append(reports, report)
	}

	jsonValue, _ := command.Flags().GetBool(flagJSONNameConstant)
	if jsonValue {
		if printError := printJSON(command, reports); printError != nil {
			return printError
		}
	} else {
		rows := make([][]string, 0, len(reports))
		for _, report := range reports {
			rows = append(rows, []string{
				report.Repository,
				report.Grade,
				fmt.Sprintf(healthScoreTemplateConstant, report.TotalScore, report.MaxScore),
				fmt.Sprintf(healthPercentTemplateConstant, report.Percentage),
				strconv.Itoa(len(report.Issues)),
			})
		}
		sink.Table(healthTableHeaders, rows)
	}

	minScoreValue, _ := command.Flags().GetFloat64(flagMinScoreNameConstant)
	if minScoreValue > 0 {
		belowMinimum := 0
		for _, report := range reports {
			if report.Percentage < minScoreValue {
				belowMinimum++
			}
		}
		if belowMinimum > 0 {
			return fmt.Errorf(belowMinimumTemplateConstant, belowMinimum, len(reports), minScoreValue)
		}
	}
	return nil
}
