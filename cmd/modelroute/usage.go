package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/ineyio/modelroute"
)

type usageReport struct {
	Model       string                        `json:"model"`
	Utilization modelroute.ContextUtilization `json:"utilization"`
	Metadata    modelroute.MessageMetadata    `json:"metadata"`
}

func newUsageCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage FILE",
		Short: "Report context utilization and message metadata for a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, _ := cmd.Flags().GetString("model")

			logger := a.logger()
			messages, err := readConversation(args[0], cmd.InOrStdin(), logger)
			if err != nil {
				return err
			}

			router, err := a.router(logger)
			if err != nil {
				return err
			}
			if model == "" {
				model = router.DefaultModel()
			}

			report := usageReport{
				Model:       model,
				Utilization: router.Utilization(messages, model),
				Metadata:    router.Estimator().BuildMessageMetadata(messages),
			}

			enc := json.NewEncoder(a.out)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().StringP("model", "m", "", "model to measure against (default is the catalog default model)")
	return cmd
}
