package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate("plain text", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain text", out)

	out, err = RenderTemplate(`Hi {{.Name}} & {{ default "friend" .Nick }}`, map[string]any{"Name": "Ava"})
	require.NoError(t, err)
	assert.Equal(t, "Hi Ava & friend", out, "text templates must not HTML-escape")

	out, err = RenderTemplate(`{{ join ", " .Names }}
{{ bullets .Names }}`, map[string]any{"Names": []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, "a, b\n- a\n- b", out)

	_, err = RenderTemplate("{{ .Broken", nil)
	assert.Error(t, err)
}
