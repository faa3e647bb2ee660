// The main package for the aggregator executable.
package main

import (
	"github.com/JakeFAU/events-aggregator/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
