package main

import (
	"fmt"
	"os"
)

// Exit codes
const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitInvalidArgs   = 2
	ExitDatabaseError = 3
	ExitOutputError   = 4
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return ExitInvalidArgs
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "parquet":
		return runParquet(cmdArgs)
	case "llava":
		return runLLaVA(cmdArgs)
	case "help", "-h", "--help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return ExitInvalidArgs
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: haven2llava <command> [options]

Commands:
  parquet   Build a batched columnar dataset (image, query, labels, provenance)
  llava     Build a resumable LLaVA conversational dataset with an image directory

Run 'haven2llava <command> -h' for command-specific help.`)
}
