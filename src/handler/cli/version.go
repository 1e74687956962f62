package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func (h *Handler) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", h.cfg.Agent.Name, h.cfg.Agent.Version)
		},
	}
}

func (h *Handler) rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List available rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := h.analysis().Rules()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			dim := color.New(color.Faint)
			fmt.Fprintln(out, "Rules (in evaluation order):")
			for _, r := range rules {
				state := "enabled"
				if !r.Enabled {
					state = "disabled"
				}
				kind := ""
				if r.Custom {
					kind = " [custom]"
				}
				line := fmt.Sprintf("  - %-18s : %s (%s)%s", r.Name, r.Description, state, kind)
				if r.Enabled {
					fmt.Fprintln(out, line)
				} else {
					dim.Fprintln(out, line)
				}
			}
			return nil
		},
	}
}
