package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/silverconnect/internal/presentation/graph"
	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/spf13/cobra"
)

var engineNames = []string{
	domain.EngineAuth,
	domain.EngineCommunity,
	domain.EngineActivity,
	domain.EngineFriends,
	domain.EngineNotification,
	domain.EngineSettings,
	domain.EngineDashboard,
	domain.EngineChat,
}

var graphCmd = &cobra.Command{
	Use:   "graph <engine>",
	Short: "Print the state graph of an engine as a Mermaid flowchart",
	Long: fmt.Sprintf(`Prints the states and transitions of one engine (%s).
With --user the state that member's session is parked at is highlighted.`, strings.Join(engineNames, ", ")),
	Args:      cobra.ExactArgs(1),
	ValidArgs: engineNames,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !slices.Contains(engineNames, args[0]) {
			return fmt.Errorf("unknown engine %q, expected one of %s", args[0], strings.Join(engineNames, ", "))
		}
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		m, _ := a.platform.Machine(args[0])
		var overlay *graph.Overlay
		if user, _ := cmd.Flags().GetString("user"); user != "" {
			overlay = &graph.Overlay{CurrentState: a.platform.CurrentState(cmd.Context(), args[0], user)}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(m, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("user", "", "Highlight the current state of this member's session")
}
