package command

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/jo-hoe/go-request-template/app/template"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	var templateName string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check templates and print them with defaults applied",
		Long: `Load the config file, validate every template (or the one named with -t)
and print the templates with method and body_format defaults filled in.

Examples:
  reqtmpl validate -c config.yaml
  reqtmpl validate -c config.yaml -t createUser`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.load(cmd)
			if err != nil {
				return err
			}

			names := cfg.TemplateNames()
			if templateName != "" {
				names = []string{templateName}
			}

			validated := make(map[string]template.Template, len(names))
			for _, name := range names {
				tpl, err := cfg.Template(name)
				if err != nil {
					return err
				}
				if validated[name], err = template.Validate(tpl); err != nil {
					return fmt.Errorf("template '%s': %w", name, err)
				}
			}

			out, err := yaml.Marshal(validated)
			if err != nil {
				return fmt.Errorf("failed to encode templates: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&templateName, "template", "t", "", "Validate only this template")
	return cmd
}
