package main

import "pageprism/presentation/cli"

func main() {
	cli.Execute()
}
