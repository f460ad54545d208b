package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaifufi/seaport-swap-sdk-go/chain"
)

func TestPromptConfirmer(t *testing.T) {
	prompt := chain.Prompt{Action: chain.ActionTypeCreate, Summary: "sign order"}

	testCases := map[string]bool{
		"y\n":   true,
		"YES\n": true,
		" y \n": true,
		"n\n":   false,
		"\n":    false,
		"":      false,
		"y":     true,
	}

	for input, want := range testCases {
		var out bytes.Buffer
		c := newPromptConfirmer(strings.NewReader(input), &out)
		ok, err := c.Confirm(context.Background(), prompt)
		require.NoError(t, err, "%q", input)
		assert.Equal(t, want, ok, "%q", input)
		assert.Contains(t, out.String(), "[create] sign order")
	}
}

func TestPromptConfirmerCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newPromptConfirmer(strings.NewReader("y\n"), &bytes.Buffer{})
	ok, err := c.Confirm(ctx, chain.Prompt{})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}
