package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/ibft2/validation/core"
)

func main() {
	ctx := &core.ValidationContext{
		Proposer: core.RoundRobinProposerSelector{},
	}

	// prevent golang compiler from removing the whole function
	io.Copy(io.Discard, strings.NewReader(fmt.Sprint(ctx)))
}
