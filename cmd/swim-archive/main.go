package main

import "github.com/pfrederiksen/swim-archive/internal/cli"

func main() {
	cli.Execute()
}
