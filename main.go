package main

import "rpytl/internal/cli"

func main() {
	cli.Execute()
}
