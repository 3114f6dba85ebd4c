package main

import "github.com/pfrederiksen/skate-results/internal/cli"

func main() {
	cli.Execute()
}
