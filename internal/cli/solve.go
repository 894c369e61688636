package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/course-scheduler-api/internal/dto"
	"github.com/noah-isme/course-scheduler-api/internal/extractor"
	"github.com/noah-isme/course-scheduler-api/internal/scheduler"
	"github.com/noah-isme/course-scheduler-api/internal/service"
)

func newSolveCmd(root *rootOptions) *cobra.Command {
	var (
		file          string
		format        string
		output        string
		preference    string
		maxCandidates int
		timeout       time.Duration
	)

	c := &cobra.Command{
		Use:   "solve",
		Short: "Solve a schedule request read from a JSON file",
		Long: `Reads a request shaped like the POST /schedule body, for example

  {"courses":[{"name":"CS101","lectures":["Mon 9-11"],"ta_times":["Tue 10-11"]}],
   "preference":"crammed","constraints":"no classes on Friday"}

and prints the best schedule. Use -f - to read from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			switch format {
			case service.FormatJSON, service.FormatTable, service.FormatCSV:
			case service.FormatPDF:
				if output == "" {
					return fmt.Errorf("--format pdf requires --output")
				}
			default:
				return fmt.Errorf("unknown --format %q (want json, table, csv or pdf)", format)
			}

			req, err := readRequest(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("preference") {
				req.Preference = preference
			}

			logger := root.logger()
			defer logger.Sync() //nolint:errcheck

			svc := service.NewScheduleService(
				scheduler.NewEngine(scheduler.Options{MaxCandidates: maxCandidates}),
				extractor.NewRuleExtractor(logger),
				nil,
				nil,
				nil,
				nil,
				logger,
				service.ScheduleServiceConfig{Timeout: timeout},
			)
			resp, _, err := svc.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}

			file, err := service.NewExportService().Render(resp, format)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(file.Body)
				return err
			}
			if err := os.WriteFile(output, file.Body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", output)
			return nil
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "", "request JSON file, or - for stdin")
	c.Flags().StringVar(&format, "format", service.FormatTable, "output format: json, table, csv or pdf")
	c.Flags().StringVarP(&output, "output", "o", "", "write the result to this file instead of stdout")
	c.Flags().StringVarP(&preference, "preference", "p", "", "override the request preference (crammed or spaced)")
	c.Flags().IntVar(&maxCandidates, "max-candidates", 500000, "refuse requests with more candidate schedules (0 disables)")
	c.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "abort the search after this long (0 disables)")
	_ = c.MarkFlagRequired("file")

	return c
}

func readRequest(stdin io.Reader, file string) (dto.GenerateScheduleRequest, error) {
	var req dto.GenerateScheduleRequest

	var (
		raw []byte
		err error
	)
	if file == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(file)
	}
	if err != nil {
		return req, fmt.Errorf("read request: %w", err)
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}
