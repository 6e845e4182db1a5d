package main

import "github.com/mcoot/chirpygame/internal/cli"

func main() {
	cli.Execute()
}
