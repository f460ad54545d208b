package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kaifufi/seaport-swap-sdk-go/chain"
)

// promptConfirmer asks on a terminal before every signature
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func newPromptConfirmer(in io.Reader, out io.Writer) *promptConfirmer {
	return &promptConfirmer{in: bufio.NewReader(in), out: out}
}

func (c *promptConfirmer) Confirm(ctx context.Context, prompt chain.Prompt) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(c.out, "[%s] %s\nProceed? [y/N]: ", prompt.Action, prompt.Summary)

	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
