package cli

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/course-scheduler-api/internal/extractor"
	"github.com/noah-isme/course-scheduler-api/internal/scheduler"
	"github.com/noah-isme/course-scheduler-api/internal/service"
)

func newExtractCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "extract <text>",
		Short:   "Print the constraint records found in free text",
		Example: `  schedulectl extract "no classes on Friday, nothing before 10am, avoid TA Dana"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := root.logger()
			svc := service.NewScheduleService(
				scheduler.NewEngine(scheduler.Options{}),
				extractor.NewRuleExtractor(logger),
				nil, nil, nil, nil, logger,
				service.ScheduleServiceConfig{},
			)
			resp, err := svc.ExtractConstraints(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
}
