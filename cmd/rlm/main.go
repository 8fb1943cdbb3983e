// Command rlm is the code context broker's command-line entry point: it
// wires internal/cli's cobra tree to the process and exits with the code
// the command layer derives from the error taxonomy in internal/rlmerr.
package main

import "github.com/mvp-joe/rlm/internal/cli"

func main() {
	cli.Execute()
}
