package main

import "github.com/letaky-tools/letaky/internal/cli"

func main() {
	cli.Execute()
}
