package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jo-hoe/go-request-template/app/config"
	"github.com/jo-hoe/go-request-template/app/value"
)

// recordFlags are the flags that select a template and describe its record.
type recordFlags struct {
	templateName string
	dataFile     string
	assignments  []string
	coerce       bool
}

func (f *recordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.templateName, "template", "t", "", "Name of the template to use")
	cmd.Flags().StringVarP(&f.dataFile, "data", "d", "", "YAML or JSON file holding the data record")
	cmd.Flags().StringArrayVar(&f.assignments, "set", nil, "Record entry as name=value, repeatable; values are read as YAML scalars")
	cmd.Flags().BoolVar(&f.coerce, "coerce-numeric-strings", false, "Turn partially substituted data strings that form a number into numbers")
	_ = cmd.MarkFlagRequired("template")
}

// record reads the data file and applies --set entries on top of it.
func (f *recordFlags) record() (value.Record, error) {
	rec := value.Record{}
	if f.dataFile != "" {
		data, err := os.ReadFile(f.dataFile)
		if err != nil {
			return nil, err
		}
		if rec, err = config.LoadRecord(data); err != nil {
			return nil, fmt.Errorf("%s: %w", f.dataFile, err)
		}
	}

	overrides := value.Record{}
	for _, assignment := range f.assignments {
		name, v, err := config.ParseAssignment(assignment)
		if err != nil {
			return nil, err
		}
		overrides[name] = v
	}
	return rec.Merge(overrides), nil
}

// coerceNumericStrings reports whether either the flag or the config enables coercion.
func (f *recordFlags) coerceNumericStrings(cfg *config.Config) bool {
	return f.coerce || cfg.CoerceNumericStrings
}
