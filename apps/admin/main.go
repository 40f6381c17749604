package main

import (
	"log"
	"os"

	"golang.org/x/term"

	"github.com/trezcool/bulletin/core"
)

var (
	logger *log.Logger

	isTerminalFunc = term.IsTerminal // mockable
)

func main() {
	logger = log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// start CLI
	cli := commandLine{
		conf:  core.NewConfig(),
		out:   os.Stdout,
		color: isTerminalFunc(int(os.Stdout.Fd())),
	}
	err := cli.run(os.Args)
	if cli.db != nil {
		if cErr := cli.db.Close(); cErr != nil {
			logger.Printf("closing db: %v", cErr)
		}
	}
	if err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %+v\n", err)
		}
		os.Exit(1)
	}
}
