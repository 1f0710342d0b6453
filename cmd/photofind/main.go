package main

import "photofind/internal/cli"

func main() {
	cli.Execute()
}
