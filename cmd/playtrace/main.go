package main

import (
	"github.com/tmcnicol/playtrace/internal/cli"
)

func main() {
	cli.Execute()
}
