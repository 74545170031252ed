// Command brot plots fractals to files.
//
//	brot plot -o out.png [flags]
//	brot list fractals|colourers|output-types|regions
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
)

const usage = `usage:
  brot plot -o FILE [flags]   plot a fractal (brot plot -h for flags)
  brot list WHAT              list fractals, colourers, output-types or regions
`

func main() {
	log.SetFlags(0)
	if err := run(os.Args[1:], os.Stdout); err != nil && !errors.Is(err, flag.ErrHelp) {
		log.Fatalf("brot: %v", err)
	}
}

var errUsage = errors.New("see usage above")

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errUsage
	}
	switch args[0] {
	case "plot":
		return plotCmd(args[1:], stdout)
	case "list":
		return listCmd(args[1:], stdout)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}
