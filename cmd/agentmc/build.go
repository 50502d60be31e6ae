package main

import (
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/agentmc"
	"github.com/hupe1980/agentmc/agent"
	"github.com/hupe1980/agentmc/config"
	"github.com/hupe1980/agentmc/core"
	"github.com/hupe1980/agentmc/logging"
	"github.com/hupe1980/agentmc/model"
	"github.com/hupe1980/agentmc/model/anthropic"
	"github.com/hupe1980/agentmc/model/openai"
	"github.com/hupe1980/agentmc/participant"
	"github.com/hupe1980/agentmc/reporter"
	"github.com/hupe1980/agentmc/selector"
)

// newModel creates a model of the configured provider; name may be empty
// for the provider default.
func newModel(cfg config.Config, name string) model.Model {
	switch cfg.Provider {
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.APIKey = cfg.AnthropicAPIKey
			if name != "" {
				o.Model = anthropicsdk.Model(name)
			}
		})
	case "mock":
		return model.NewMockModel(name, "mock")
	default:
		return openai.NewModel(func(o *openai.Options) {
			o.APIKey = cfg.OpenAIAPIKey
			o.BaseURL = cfg.OpenAIBaseURL
			if name != "" {
				o.Model = name
			}
		})
	}
}

// buildConversation wires a MasterOfCeremony for scene: one model-backed
// participant per agent, humans as accepted senders.
func buildConversation(cfg config.Config, scene *config.Scene, logger logging.Logger) (*agentmc.MasterOfCeremony, error) {
	var sel core.Selector
	if cfg.Provider != "mock" {
		sel = selector.NewModel(newModel(cfg, cfg.SelectorModel), func(o *selector.ModelOptions) {
			o.MaxMessages = cfg.SelectorWindow
			o.Logger = logger
		})
	}

	var rep core.Reporter
	if cfg.ReporterModel != "" {
		rep = reporter.NewModel(newModel(cfg, cfg.ReporterModel), func(o *reporter.ModelOptions) {
			o.Logger = logger
		})
	}

	humans := make([]string, 0, len(scene.Humans()))
	for _, h := range scene.Humans() {
		humans = append(humans, h.Name)
	}

	mc := agentmc.New(func(o *agentmc.Options) {
		o.Selector = sel
		o.SelectorWindow = cfg.SelectorWindow
		o.StrictSenders = true
		o.Speakers = humans
		o.Logger = logger
	})

	for _, spec := range scene.Agents() {
		instruction, err := scene.SystemPrompt(spec.Name)
		if err != nil {
			return nil, err
		}

		modelName := spec.Model
		if modelName == "" {
			modelName = cfg.Model
		}

		a := agent.NewModelAgent(spec.Name, newModel(cfg, modelName), func(o *agent.ModelAgentOptions) {
			o.Instruction = agent.NewInstructionFromText(instruction)
			o.EnableStreaming = cfg.Stream
			o.Logger = logger
		})

		p := participant.New(spec.Name, a, rep, func(o *participant.Options) {
			o.Logger = logger
		})
		if err := mc.AddParticipant(p); err != nil {
			return nil, fmt.Errorf("add %s: %w", spec.Name, err)
		}
	}

	return mc, nil
}
