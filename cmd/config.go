package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	errUtils "github.com/cloudposse/buildcheck/errors"
)

const formatYAML = "yaml"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long:  `Print the configuration after merging defaults, buildcheck.yaml, the environment and flags. Tokens and DSNs are redacted.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		redacted := buildcheckConfig.Redacted()

		switch format {
		case formatYAML:
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(redacted); err != nil {
				return err
			}
			return enc.Close()
		case formatJSON:
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(redacted)
		default:
			return errUtils.Build(fmt.Errorf("%w: unsupported format %q", errUtils.ErrInvalidConfig, format)).
				WithHint("Use --format yaml or --format json").
				Err()
		}
	},
}

func init() {
	configCmd.Flags().String("format", formatYAML, "Output format: yaml or json")
	RootCmd.AddCommand(configCmd)
}
