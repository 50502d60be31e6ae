package main

import (
	"fmt"
	"hash/fnv"
	"io"
	"strings"

	"github.com/gookit/color"

	"github.com/hupe1980/agentmc"
	"github.com/hupe1980/agentmc/config"
	"github.com/hupe1980/agentmc/core"
)

const subscriber = "cli"

var palette = map[string]color.Color{
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
	"white":   color.FgWhite,
	"gray":    color.FgGray,
}

// presenter prints the conversation with one color per speaker. Turns are
// streamed live; everything else is caught up through the timeline cursor.
type presenter struct {
	out    io.Writer
	colors map[string]color.Color
	mc     *agentmc.MasterOfCeremony
}

func newPresenter(out io.Writer, mc *agentmc.MasterOfCeremony, scene *config.Scene) *presenter {
	colors := make(map[string]color.Color, len(scene.Participants))
	for _, p := range scene.Participants {
		if c, ok := palette[p.Color]; ok {
			colors[p.Name] = c
			continue
		}
		colors[p.Name] = pick(p.Name)
	}
	return &presenter{out: out, colors: colors, mc: mc}
}

// pick derives a stable color from name.
func pick(name string) color.Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return palette[config.Colors[h.Sum32()%uint32(len(config.Colors))]]
}

func (p *presenter) label(name string) string {
	c, ok := p.colors[name]
	if !ok {
		c = pick(name)
	}
	return color.New(c, color.OpBold).Render(name + ":")
}

// turn returns a chunk callback that prints the reply as it streams.
func (p *presenter) turn(speaker string) func(core.Chunk) error {
	started := false
	return func(c core.Chunk) error {
		if !started {
			fmt.Fprintf(p.out, "%s ", p.label(speaker))
			started = true
		}
		_, err := io.WriteString(p.out, c.Text)
		return err
	}
}

// endTurn finishes a streamed line and prints anything committed that was
// not streamed, except the human's own input which is already on screen.
func (p *presenter) endTurn(streamed core.Message, human string) {
	for _, msg := range p.mc.Pull(subscriber) {
		switch {
		case msg.ID == streamed.ID:
			if strings.TrimSpace(msg.Content) == "" {
				fmt.Fprintf(p.out, "%s …\n", p.label(msg.Sender))
				continue
			}
			fmt.Fprintln(p.out)
		case msg.Sender == human:
		default:
			fmt.Fprintf(p.out, "%s %s\n", p.label(msg.Sender), msg.Content)
		}
	}
}

// catchUp prints every message not seen yet.
func (p *presenter) catchUp(human string) { p.endTurn(core.Message{}, human) }
