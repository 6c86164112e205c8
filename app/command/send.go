package command

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/jo-hoe/go-request-template/app/batch"
	"github.com/jo-hoe/go-request-template/app/config"
	"github.com/jo-hoe/go-request-template/app/dispatch"
	"github.com/jo-hoe/go-request-template/app/interpolate"
	"github.com/jo-hoe/go-request-template/app/value"
)

func newSendCmd(root *rootOptions) *cobra.Command {
	flags := &recordFlags{}
	var recordsFile, selectPath string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Resolve a template and send the request",
		Long: `Resolve a template with a data record and send the request. With --records
the template is sent once per record of a YAML or JSON list, concurrently.
--data and --set entries are merged into every record of the list.
Booleans embedded in strings, query parameters and form fields are written
as "true" and "false".
With --select only the JSONPath matches of each response body are printed,
one JSON value per line.

Examples:
  reqtmpl send -c config.yaml -t createUser -d user.yaml
  reqtmpl send -c config.yaml -t createUser --records users.yaml
  reqtmpl send -c config.yaml -t getUser --set id=5 --select '$.name'`,
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
			base, err := flags.record()
			if err != nil {
				return err
			}

			records := []value.Record{base}
			if recordsFile != "" {
				data, err := os.ReadFile(recordsFile)
				if err != nil {
					return err
				}
				list, err := config.LoadRecords(data)
				if err != nil {
					return fmt.Errorf("%s: %w", recordsFile, err)
				}
				records = make([]value.Record, len(list))
				for i, rec := range list {
					records[i] = rec.Merge(base)
				}
			}

			dispatcher := dispatch.New(
				dispatch.NewHTTPRequestFactory(
					dispatch.WithHTTPClient(&http.Client{Timeout: cfg.TimeoutDuration()}),
					dispatch.WithMaxResponseSize(cfg.MaxResponseSizeBytes),
					dispatch.WithRequestIDHeader(cfg.RequestIDHeader),
					dispatch.WithClientLogger(logger),
				),
				dispatch.WithInterpolator(interpolate.New(
					interpolate.WithCoerceNumericStrings(flags.coerceNumericStrings(cfg)),
					interpolate.WithLogger(logger),
				)),
				dispatch.WithLogger(logger),
			)
			runner := batch.NewRunner(dispatcher, batch.WithRetries(cfg.Retries), batch.WithLogger(logger))

			results := runner.Run(cmd.Context(), tpl, records)
			return printResults(cmd.OutOrStdout(), results, recordsFile != "", selectPath)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&recordsFile, "records", "", "YAML or JSON list of records; one request is sent per record")
	cmd.Flags().StringVar(&selectPath, "select", "", "JSONPath evaluated against each response body, e.g. '$.data.id'")
	return cmd
}

// printResults writes status and body (or the selected values) of every response
// and returns the collected errors.
func printResults(out io.Writer, results []batch.Result, numbered bool, selectPath string) error {
	var result *multierror.Error
	for _, r := range results {
		if numbered {
			fmt.Fprintf(out, "[%d] ", r.Index)
		}
		if r.Err != nil {
			fmt.Fprintf(out, "error: %v\n", r.Err)
			result = multierror.Append(result, fmt.Errorf("record %d: %w", r.Index, r.Err))
			continue
		}
		fmt.Fprintf(out, "%s\n", r.Response.Status)
		if selectPath == "" {
			if body := r.Response.Text(); body != "" {
				fmt.Fprintln(out, body)
			}
			continue
		}
		if err := printSelection(out, r.Response, selectPath); err != nil {
			result = multierror.Append(result, fmt.Errorf("record %d: %w", r.Index, err))
		}
	}
	return result.ErrorOrNil()
}

func printSelection(out io.Writer, resp *dispatch.Response, selectPath string) error {
	matches, err := resp.Lookup(selectPath)
	if err != nil {
		return err
	}
	for _, match := range matches {
		encoded, err := json.Marshal(match)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(encoded))
	}
	return nil
}
