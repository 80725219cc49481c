package main

import "github.com/naka-gawa/commit-name-finder/cmd"

func main() {
	cmd.Execute()
}
