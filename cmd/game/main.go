package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/tomz197/balldrop/internal/config"
	"github.com/tomz197/balldrop/internal/draw"
	"github.com/tomz197/balldrop/internal/loop"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	opts, err := loop.SessionOptions(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "game config: %v\n", err)
		os.Exit(1)
	}

	restore, err := draw.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)
	err = loop.Run(reader, os.Stdout, opts)
	restore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
