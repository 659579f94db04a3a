package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ineyio/modelroute"
)

func newRouteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route FILE",
		Short: "Run the routing rules over a conversation file",
		Long: `Run the routing rules over a conversation file ("-" reads stdin).
Attachment kinds are derived from the conversation's file parts unless
--attachment is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			model, _ := flags.GetString("model")
			override, _ := flags.GetString("override")
			attachments, _ := flags.GetStringSlice("attachment")
			reasoning, _ := flags.GetBool("reasoning")
			tools, _ := flags.GetBool("tools")
			format, _ := flags.GetString("format")

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
			if !flags.Changed("attachment") {
				attachments = modelroute.AttachmentTypes(messages)
			}

			decision := router.Route(modelroute.RoutingInput{
				SelectedModelID:  model,
				UserOverride:     override,
				AttachmentTypes:  attachments,
				ReasoningEnabled: reasoning,
				ToolsEnabled:     tools,
				Messages:         messages,
			})

			return a.printDecision(decision, format)
		},
	}

	cmd.Flags().StringP("model", "m", "", "selected model (default is the catalog default model)")
	cmd.Flags().String("override", "", "model the user explicitly forced")
	cmd.Flags().StringSlice("attachment", nil, "attachment kinds present (audio, video, image, pdf, ...)")
	cmd.Flags().Bool("reasoning", false, "reasoning mode enabled")
	cmd.Flags().Bool("tools", false, "tool use enabled")
	cmd.Flags().StringP("format", "f", "text", "output format (text, json)")
	return cmd
}

func (a *app) printDecision(d modelroute.RoutingDecision, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case "text", "":
		u := d.ContextUtilization
		fmt.Fprintf(a.out, "model:     %s\n", d.ModelID)
		fmt.Fprintf(a.out, "original:  %s\n", d.OriginalModelID)
		fmt.Fprintf(a.out, "changed:   %t\n", d.WasChanged)
		if d.Rule != "" {
			fmt.Fprintf(a.out, "rule:      %s\n", d.Rule)
		}
		if d.Reason != "" {
			fmt.Fprintf(a.out, "reason:    %s\n", d.Reason)
		}
		fmt.Fprintf(a.out, "context:   %d / %d tokens (%.1f%%, %d available)\n",
			u.EstimatedTokens, u.ContextLimit, u.UtilizationPercent*100, u.AvailableTokens)
		switch {
		case u.IsCritical:
			fmt.Fprintln(a.out, "status:    critical")
		case u.IsWarning:
			fmt.Fprintln(a.out, "status:    warning")
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
