package main

import "github.com/mcoot/pokernight/internal/cli"

func main() {
	cli.Execute()
}
