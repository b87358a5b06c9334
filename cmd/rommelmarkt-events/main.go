package main

import "github.com/pfrederiksen/rommelmarkt-events/internal/cli"

func main() {
	cli.Execute()
}
