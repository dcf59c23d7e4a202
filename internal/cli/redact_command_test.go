package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedactCommandScrubsBuiltinPatterns(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "t.jsonl",
		`{"speaker":"A","text":"reach me at 555-123-4567 or a@b.com","start":0,"end":3}`+"\n")

	stdout, _, err := runCommand(t, newRedactCmd(&appState{}), path)
	require.NoError(t, err)
	require.Equal(t, `{"speaker":"A","text":"reach me at [PHONE] or [EMAIL]","start":0,"end":3}`+"\n", stdout)
}

func TestRedactCommandScrubsSuppliedNames(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, "t.jsonl",
		`{"speaker":"A","text":"john doe came by","start":0,"end":2}`+"\n")

	stdout, _, err := runCommand(t, newRedactCmd(&appState{}), "--names", "John Doe", path)
	require.NoError(t, err)
	require.Contains(t, stdout, "[NAME] came by")
}
