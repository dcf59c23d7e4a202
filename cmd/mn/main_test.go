package main

import (
	"errors"
	"testing"

	"github.com/nasteffe/make-notes/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestShouldPrintUsageHint(t *testing.T) {
	t.Parallel()

	require.True(t, shouldPrintUsageHint(errors.New("unknown command \"bad\" for \"mn\"")))
	require.True(t, shouldPrintUsageHint(errors.New("unknown flag: --oops")))
	require.True(t, shouldPrintUsageHint(errors.New("accepts at most 1 arg(s), received 2")))
	require.True(t, shouldPrintUsageHint(errors.New("--template is required")))
	require.False(t, shouldPrintUsageHint(errors.New("download model \"base\": context deadline exceeded")))
	require.False(t, shouldPrintUsageHint(nil))
}

func TestHelpHintTarget(t *testing.T) {
	t.Parallel()

	root := cli.NewRootCmd()
	require.Equal(t, "mn", helpHintTarget(root, []string{"--badflag"}))
	require.Equal(t, "mn", helpHintTarget(root, []string{"badcmd"}))
	require.Equal(t, "mn transcribe", helpHintTarget(root, []string{"transcribe"}))
	require.Equal(t, "mn edit", helpHintTarget(root, []string{"edit", "--editor", "nano"}))
}
