package main

import "github.com/amterp/kanpad/internal/cli"

func main() {
	cli.Run()
}
