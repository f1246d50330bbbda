package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"migrate", "seed", "detect", "revalidate", "purge", "tick", "health", "langfuse-check"} {
		assert.Contains(t, names, want)
	}
}

func TestUserFlag(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("user", "", "")

	require.NoError(t, cmd.Flags().Set("user", "11111111-1111-1111-1111-111111111111"))
	id, err := userFlag(cmd)
	require.NoError(t, err)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", id.String())

	require.NoError(t, cmd.Flags().Set("user", "nope"))
	_, err = userFlag(cmd)
	assert.Error(t, err)
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "(empty)", maskKey(""))
	assert.Equal(t, "***", maskKey("pk-lf"))
	assert.Equal(t, "pk-lf-12...", maskKey("pk-lf-1234567890"))
}
