// This program mines and inspects sandbox chains from the command line.
package main

import "github.com/ardanlabs/blocksandbox/app/tooling/sandbox/cmd"

func main() {
	cmd.Execute()
}
