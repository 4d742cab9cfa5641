package main

import "github.com/sort-bench/cmd/sortbench/cmd"

func main() {
	cmd.Execute()
}
