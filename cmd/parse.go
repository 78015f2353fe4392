package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	errUtils "github.com/cloudposse/buildcheck/errors"
	"github.com/cloudposse/buildcheck/pkg/ci"
	"github.com/cloudposse/buildcheck/pkg/diagnostics"
	"github.com/cloudposse/buildcheck/pkg/pipeline"
	"github.com/cloudposse/buildcheck/pkg/summary"
)

const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

var parseCmd = &cobra.Command{
	Use:   "parse <log>",
	Short: "Classify an existing build log",
	Long: `Classify the errors and warnings of an existing build log and print them. ` +
		`With --report the diagnostics are also published as check runs. The log is never removed.`,
	Example: `buildcheck parse Editor.log
buildcheck parse Editor.log --severity warning --format json
buildcheck parse Editor.log --report`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		severities, err := parseSeverities(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		if format != formatMarkdown && format != formatJSON {
			return errUtils.Build(fmt.Errorf("%w: unsupported format %q", errUtils.ErrInvalidConfig, format)).
				WithHint("Use --format markdown or --format json").
				Err()
		}

		report, _ := cmd.Flags().GetBool("report")
		if report {
			return reportLog(cmd, path)
		}

		text, err := diagnostics.ReadLog(afero.NewOsFs(), path)
		if err != nil {
			return err
		}

		classifier := diagnostics.NewClassifier(reportingConfig)
		found := make(map[diagnostics.Severity][]diagnostics.Diagnostic, len(severities))
		for _, sev := range severities {
			found[sev] = classifier.Parse(text, sev)
		}

		if format == formatJSON {
			return writeJSON(cmd.OutOrStdout(), found)
		}
		return printMarkdown(cmd.OutOrStdout(), renderFindings(found, severities))
	},
}

func parseSeverities(cmd *cobra.Command) ([]diagnostics.Severity, error) {
	value, _ := cmd.Flags().GetString("severity")
	if value == "" || strings.EqualFold(value, "all") {
		return diagnostics.Severities, nil
	}
	sev, err := diagnostics.ParseSeverity(value)
	if err != nil {
		return nil, errUtils.Build(err).WithHint("Use --severity error, warning or all").Err()
	}
	return []diagnostics.Severity{sev}, nil
}

// renderFindings renders one summary per severity under a count heading.
func renderFindings(found map[diagnostics.Severity][]diagnostics.Diagnostic, severities []diagnostics.Severity) string {
	title := cases.Title(language.English)
	var b strings.Builder
	for i, sev := range severities {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&b, "**%s:** %d\n\n", title.String(sev.Plural()), len(found[sev]))
		b.WriteString(summary.Render(found[sev], sev))
	}
	return b.String()
}

func writeJSON(w io.Writer, found map[diagnostics.Severity][]diagnostics.Diagnostic) error {
	out := make(map[string][]diagnostics.Diagnostic, len(found))
	for sev, diags := range found {
		if diags == nil {
			diags = []diagnostics.Diagnostic{}
		}
		out[sev.Plural()] = diags
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// reportLog classifies path and publishes the result like run does.
func reportLog(cmd *cobra.Command, path string) error {
	config := buildcheckConfig
	output := ci.NewOutputWriter(&config.GitHub)
	rep, err := newReporter(config, reportingConfig, output)
	if err != nil {
		return err
	}

	p := pipeline.New(pipelineConfig(config), diagnostics.NewClassifier(reportingConfig), rep,
		pipeline.WithOutputWriter(output),
	)
	res, err := p.Analyze(cmd.Context(), path)
	if err != nil {
		return err
	}
	return resultError(res)
}

func init() {
	addCheckFlags(parseCmd)
	parseCmd.Flags().String("severity", "all", "Severity to print: error, warning or all")
	parseCmd.Flags().String("format", formatMarkdown, "Output format: markdown or json")
	parseCmd.Flags().Bool("report", false, "Publish the diagnostics as check runs")
	RootCmd.AddCommand(parseCmd)
}
