package main

import (
	"github.com/2exd/suit-streak-server/internal/cli"
)

func main() {
	cli.Execute()
}
