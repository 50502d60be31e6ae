package reporter

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/hupe1980/agentmc/core"
)

// BulletPoint renders buffered messages verbatim as a bullet list.
type BulletPoint struct{}

// NewBulletPoint creates a BulletPoint reporter.
func NewBulletPoint() *BulletPoint { return &BulletPoint{} }

// Report implements core.Reporter.
func (BulletPoint) Report(_ context.Context, _ string, messages []core.Message) (string, error) {
	return bulletList(messages), nil
}

func bulletList(messages []core.Message) string {
	return strings.Join(lo.Map(messages, func(m core.Message, _ int) string {
		return "- " + m.String()
	}), "\n")
}

// window returns the last limit messages; limit <= 0 keeps everything.
func window(messages []core.Message, limit int) []core.Message {
	if limit <= 0 || len(messages) <= limit {
		return messages
	}
	return messages[len(messages)-limit:]
}
