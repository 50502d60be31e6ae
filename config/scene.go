package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/agentmc/internal/util"
)

var validate = validator.New()

// ErrNoAgents is returned for scenes where every participant is human.
var ErrNoAgents = errors.New("scene has no agent participants")

// Colors are the accepted participant colors.
var Colors = []string{"red", "green", "yellow", "blue", "magenta", "cyan", "white", "gray"}

// Scene describes the setting and cast of a conversation.
type Scene struct {
	Scene        string            `yaml:"scene" validate:"required"`
	Language     string            `yaml:"language"`
	Participants []ParticipantSpec `yaml:"participants" validate:"required,min=1,unique=Name,dive"`
}

// ParticipantSpec is one member of the cast. Public is what everybody knows
// about the character, Private is known only to the character itself.
type ParticipantSpec struct {
	Name    string `yaml:"name" validate:"required"`
	Public  string `yaml:"public"`
	Private string `yaml:"private"`
	Human   bool   `yaml:"human"`
	Color   string `yaml:"color" validate:"omitempty,oneof=red green yellow blue magenta cyan white gray"`
	Model   string `yaml:"model"`
}

// LoadScene reads and validates a scene file.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return ParseScene(data)
}

// ParseScene decodes and validates a YAML scene. Language defaults to English.
func ParseScene(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}

	if s.Language == "" {
		s.Language = "English"
	}

	if err := validate.Struct(&s); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}

	if len(s.Agents()) == 0 {
		return nil, ErrNoAgents
	}

	return &s, nil
}

// Agents returns the non-human participants in scene order.
func (s *Scene) Agents() []ParticipantSpec {
	return lo.Filter(s.Participants, func(p ParticipantSpec, _ int) bool { return !p.Human })
}

// Humans returns the human participants in scene order.
func (s *Scene) Humans() []ParticipantSpec {
	return lo.Filter(s.Participants, func(p ParticipantSpec, _ int) bool { return p.Human })
}

// DefaultSystemPromptTemplate renders a participant's system prompt from
// SystemPromptData.
const DefaultSystemPromptTemplate = `You are a character participating in a conversation in {{ .Language }}.

Speak naturally, like you would in real life. Respond only with what you would say out loud. Do not describe your actions, emotions, or thoughts unless it is relevant to what you are saying.

- Do not wrap your words in quotation marks.
- Do not include stage directions, internal thoughts, or scene descriptions.
- Do not restate what just happened. Trust that everyone knows what is going on.
- Keep it conversational, brief, and reactive. Say what you would actually say next.

Stay in character. Your only goal is to respond as yourself in this ongoing dialogue.

---

Scene description:
{{ .Scene }}

---

Other participants in the conversation:
{{ bullets .Others }}

---

You impersonate the character of {{ .Name }}.
{{ if .Private }}
---

Your private motivation:
{{ .Private }}{{ end }}`

// SystemPromptData is passed to the system prompt template.
type SystemPromptData struct {
	Language string
	Scene    string
	Name     string
	Private  string
	Others   []string // "Name: public persona" of everyone else
}

// SystemPrompt renders the system prompt of the participant called name
// using DefaultSystemPromptTemplate.
func (s *Scene) SystemPrompt(name string) (string, error) {
	return s.SystemPromptFrom(DefaultSystemPromptTemplate, name)
}

// SystemPromptFrom renders the system prompt of name from a custom template.
func (s *Scene) SystemPromptFrom(tmpl, name string) (string, error) {
	self, ok := lo.Find(s.Participants, func(p ParticipantSpec) bool { return p.Name == name })
	if !ok {
		return "", fmt.Errorf("scene: unknown participant %q", name)
	}

	others := lo.FilterMap(s.Participants, func(p ParticipantSpec, _ int) (string, bool) {
		if p.Name == name {
			return "", false
		}
		if p.Public == "" {
			return p.Name, true
		}
		return p.Name + ": " + p.Public, true
	})

	return util.RenderTemplate(tmpl, SystemPromptData{
		Language: s.Language,
		Scene:    s.Scene,
		Name:     self.Name,
		Private:  self.Private,
		Others:   others,
	})
}
