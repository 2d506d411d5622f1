// Package main is the yieldwise command line: one-off property analyses,
// loan schedules and comparables imports without running the server.
package main

import "github.com/aristath/yieldwise/internal/cli"

func main() {
	cli.Execute()
}
