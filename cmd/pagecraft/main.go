// Command pagecraft is a command line client for the PageCraft API.
//
// Settings come from flags, PAGECRAFT_* environment variables (optionally
// loaded from a .env file) and a pagecraft.yaml config file, in that order
// of precedence. Results are written to stdout as JSON.
package main

import "os"

func main() {
	os.Exit(run(os.Args[1:], DefaultIO()))
}
