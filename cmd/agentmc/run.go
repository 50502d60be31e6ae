package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hupe1980/agentmc"
	"github.com/hupe1980/agentmc/config"
	"github.com/hupe1980/agentmc/core"
	"github.com/hupe1980/agentmc/logging"
	"github.com/hupe1980/agentmc/session"
)

type runFlags struct {
	envFiles      []string
	turns         int
	player        string
	transcriptDir string
	sessionID     string
}

func newRunCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run <scene.yaml>",
		Short: "Run a conversation described by a scene file",
		Long: `Run a conversation described by a scene file.

Agents take turns until the human player is asked for input. Type a line to
speak, press enter to stay silent, or type "quit" to leave. Scenes without a
human run for --turns turns.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runConversation(ctx, cmd, args[0], flags)
		},
	}

	cmd.Flags().StringSliceVar(&flags.envFiles, "env-from-file", nil, "Load environment variables from file (default .env)")
	cmd.Flags().IntVar(&flags.turns, "turns", 10, "Agent turns between human inputs, or in total without a human")
	cmd.Flags().StringVar(&flags.player, "player", "", "Human participant to play (defaults to the first human in the scene)")
	cmd.Flags().StringVar(&flags.transcriptDir, "transcript-dir", "", "Save the transcript after every turn into this directory")
	cmd.Flags().StringVar(&flags.sessionID, "session", "", "Transcript id to resume or create (defaults to a new id)")

	return cmd
}

func runConversation(ctx context.Context, cmd *cobra.Command, scenePath string, flags runFlags) error {
	cfg, err := config.Load(flags.envFiles...)
	if err != nil {
		return err
	}

	scene, err := config.LoadScene(scenePath)
	if err != nil {
		return err
	}

	player, err := choosePlayer(scene, flags.player)
	if err != nil {
		return err
	}

	logger := logging.NewSlogLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat, false).
		WithComponent("cli")

	mc, err := buildConversation(cfg, scene, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	view := newPresenter(out, mc, scene)
	input := bufio.NewScanner(cmd.InOrStdin())

	save, err := openTranscript(mc, flags)
	if err != nil {
		return err
	}
	view.catchUp("")

	turnsPerRound := max(flags.turns, 1)
	if player != "" {
		turnsPerRound = 1
	}

	for {
		for range turnsPerRound {
			if err := playTurn(ctx, mc, view, player); err != nil {
				return err
			}
			if err := save(); err != nil {
				return err
			}
		}

		if player == "" {
			return nil
		}

		fmt.Fprintf(out, "%s ", view.label(player))
		if !input.Scan() {
			return input.Err()
		}

		line := strings.TrimSpace(input.Text())
		if strings.EqualFold(line, "quit") {
			return nil
		}
		if line == "" {
			fmt.Fprintln(out)
			continue
		}

		if _, err := mc.AddMessage(player, line); err != nil {
			return err
		}
		view.catchUp(player)
		if err := save(); err != nil {
			return err
		}
	}
}

// openTranscript resumes the transcript named by flags, if any, and returns
// a function persisting the current timeline. Without a transcript
// directory nothing is persisted.
func openTranscript(mc *agentmc.MasterOfCeremony, flags runFlags) (func() error, error) {
	if flags.transcriptDir == "" {
		return func() error { return nil }, nil
	}

	store, err := session.NewFileStore(flags.transcriptDir)
	if err != nil {
		return nil, err
	}

	id := flags.sessionID
	if id == "" {
		id = uuid.NewString()
	}

	saved, err := store.Load(id)
	switch {
	case errors.Is(err, core.ErrTranscriptNotFound):
	case err != nil:
		return nil, err
	default:
		if err := mc.Replay(saved); err != nil {
			return nil, err
		}
	}

	return func() error { return store.Save(id, mc.Timeline()) }, nil
}

// playTurn streams one turn. Agent failures are shown and the conversation
// goes on; cancellation ends it.
func playTurn(ctx context.Context, mc *agentmc.MasterOfCeremony, view *presenter, player string) error {
	turn, err := mc.Step(ctx, false)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, core.ErrNoParticipants) {
			return err
		}
		view.catchUp(player)
		fmt.Fprintf(view.out, "(turn failed: %v)\n", err)
		return nil
	}

	emit := view.turn(turn.Speaker())
	var readErr error
	for chunk, err := range turn.Chunks(ctx) {
		if err != nil {
			readErr = err
			break
		}
		if err := emit(chunk); err != nil {
			readErr = err
			break
		}
	}

	msg, endErr := turn.End()
	view.endTurn(msg, player)

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := errors.Join(readErr, endErr); err != nil {
		fmt.Fprintf(view.out, "(%s failed: %v)\n", turn.Speaker(), err)
	}

	return nil
}

func choosePlayer(scene *config.Scene, requested string) (string, error) {
	humans := scene.Humans()
	if requested == "" {
		if len(humans) == 0 {
			return "", nil
		}
		return humans[0].Name, nil
	}

	for _, h := range humans {
		if h.Name == requested {
			return h.Name, nil
		}
	}

	return "", fmt.Errorf("%w: %s is not a human participant", core.ErrUnknownParticipant, requested)
}
