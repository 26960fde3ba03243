package main

import "github.com/mcoot/taptext/internal/cli"

func main() {
	cli.Execute()
}
