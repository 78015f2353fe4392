package cmd

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/cloudposse/buildcheck/pkg/diagnostics"
	"github.com/cloudposse/buildcheck/pkg/ui"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the classification rules in evaluation order",
	Long:  `List the effective classification rules. Configured rules are evaluated before the built-in ones and the first match decides a line's category.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		patterns := diagnostics.NewClassifier(reportingConfig).Patterns()
		userCount := map[diagnostics.Severity]int{
			diagnostics.SeverityError:   len(reportingConfig.ErrorPatterns),
			diagnostics.SeverityWarning: len(reportingConfig.WarningPatterns),
		}

		var rows [][]string
		for _, sev := range diagnostics.Severities {
			rows = append(rows, lo.Map(patterns.Rules(sev), func(r diagnostics.PatternRule, i int) []string {
				source := "built-in"
				if i < userCount[sev] {
					source = "config"
				}
				return []string{string(sev), fmt.Sprintf("%d", i+1), source, r.Category, r.Pattern.String()}
			})...)
		}

		_, err := fmt.Fprint(cmd.OutOrStdout(), ui.Table([]string{"Severity", "#", "Source", "Category", "Pattern"}, rows))
		return err
	},
}

func init() {
	RootCmd.AddCommand(rulesCmd)
}
