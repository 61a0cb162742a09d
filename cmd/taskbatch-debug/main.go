// Command taskbatch-debug runs YAML scenario files through the taskbatch
// scheduler and prints the resulting tree, for exploring batching and
// coalescing behavior outside of a Go test.
package main

import "github.com/apparentlymart/go-taskbatch/cmd/taskbatch-debug/cmd"

func main() {
	cmd.Execute()
}
