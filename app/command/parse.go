package command

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jo-hoe/go-request-template/app/interpolate"
)

func newParseCmd(root *rootOptions) *cobra.Command {
	flags := &recordFlags{}

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Resolve a template against a record and print it as JSON",
		Long: `Resolve the placeholders of a template with a data record and print the
result without sending it.

Examples:
  reqtmpl parse -c config.yaml -t createUser -d user.yaml
  reqtmpl parse -c config.yaml -t getUser --set id=5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.load(cmd)
			if err != nil {
				return err
			}
			tpl, err := cfg.Template(flags.templateName)
			if err != nil {
				return err
			}
			rec, err := flags.record()
			if err != nil {
				return err
			}

			interpolator := interpolate.New(
				interpolate.WithCoerceNumericStrings(flags.coerceNumericStrings(cfg)),
				interpolate.WithLogger(logger),
			)
			resolved, err := interpolator.Parse(tpl, rec)
			if err != nil {
				return err
			}
			if names := interpolate.Unresolved(resolved); len(names) > 0 {
				logger.Warn("template has unresolved placeholders", "template", flags.templateName, "placeholders", names)
			}

			out, err := json.MarshalIndent(resolved, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode template: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
