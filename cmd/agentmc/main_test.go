package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentmc/config"
	"github.com/hupe1980/agentmc/core"
	"github.com/hupe1980/agentmc/session"
)

const testScene = `
scene: A quiet bar after closing time.
participants:
  - name: Ava
    public: The bartender.
    color: cyan
  - name: Kael
    public: The last customer.
  - name: Player
    public: A stranger.
    human: true
`

func writeScene(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("AGENTMC_PROVIDER", "mock")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--env-from-file", filepath.Join(t.TempDir(), "missing.env")))

	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommand_WithPlayer(t *testing.T) {
	out, err := execute(t, "Evening.\n\nquit\n", "run", writeScene(t, testScene))
	require.NoError(t, err)

	assert.Contains(t, out, "Mock response to:")
	assert.Contains(t, out, "Player:")
}

func TestRunCommand_WithoutPlayer(t *testing.T) {
	scene := strings.Replace(testScene, "human: true", "human: false", 1)

	out, err := execute(t, "", "run", writeScene(t, scene), "--turns", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Mock response to:")
}

func TestRunCommand_UnknownPlayer(t *testing.T) {
	_, err := execute(t, "", "run", writeScene(t, testScene), "--player", "Ava")
	assert.ErrorIs(t, err, core.ErrUnknownParticipant)
}

func TestCheckCommand(t *testing.T) {
	path := writeScene(t, testScene)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"check", path, "--prompts"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "2 agents, 1 humans")
	assert.Contains(t, out.String(), "=== Ava ===")
	assert.Contains(t, out.String(), "You impersonate the character of Kael.")
	assert.NotContains(t, out.String(), "=== Player ===")
}

func TestBuildConversation(t *testing.T) {
	scene, err := config.ParseScene([]byte(testScene))
	require.NoError(t, err)

	mc, err := buildConversation(config.Config{Provider: "mock", SelectorWindow: 10, Stream: true}, scene, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ava", "Kael"}, mc.Names())

	_, err = mc.AddMessage("Player", "hi")
	assert.NoError(t, err)
	_, err = mc.AddMessage("Stranger", "hi")
	assert.ErrorIs(t, err, core.ErrUnknownParticipant)
}

func TestRunCommand_ResumesTranscript(t *testing.T) {
	dir := t.TempDir()
	path := writeScene(t, testScene)

	_, err := execute(t, "First words.\nquit\n", "run", path, "--transcript-dir", dir, "--session", "bar")
	require.NoError(t, err)

	store, err := session.NewFileStore(dir)
	require.NoError(t, err)
	first, err := store.Load("bar")
	require.NoError(t, err)
	require.Len(t, first, 3, "agent turn, player line, agent turn")
	assert.Equal(t, "First words.", first[1].Content)

	out, err := execute(t, "quit\n", "run", path, "--transcript-dir", dir, "--session", "bar")
	require.NoError(t, err)
	assert.Contains(t, out, first[0].Content[:10], "resumed messages are shown again")

	second, err := store.Load("bar")
	require.NoError(t, err)
	assert.Len(t, second, 4)
	assert.Equal(t, "First words.", second[1].Content)
}

func TestRunCommand_RejectsSessionPath(t *testing.T) {
	dir := t.TempDir()
	path := writeScene(t, testScene)

	_, err := execute(t, "quit\n", "run", path, "--transcript-dir", dir, "--session", "../escape")
	assert.ErrorIs(t, err, core.ErrInvalidTranscriptID)
}
