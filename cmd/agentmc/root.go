package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentmc/config"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "agentmc",
		Short:         "Orchestrate turn-based conversations between agents",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(newRunCmd(), newCheckCmd())

	return cmd
}

func newCheckCmd() *cobra.Command {
	var showPrompts bool

	cmd := &cobra.Command{
		Use:   "check <scene.yaml>",
		Short: "Validate a scene file and optionally print the rendered system prompts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, err := config.LoadScene(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d agents, %d humans\n", args[0], len(scene.Agents()), len(scene.Humans()))

			if !showPrompts {
				return nil
			}
			for _, p := range scene.Agents() {
				prompt, err := scene.SystemPrompt(p.Name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n=== %s ===\n%s\n", p.Name, prompt)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showPrompts, "prompts", false, "Print the system prompt of every agent")

	return cmd
}
