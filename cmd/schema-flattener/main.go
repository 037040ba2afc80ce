package main

import "schema-flattener/internal/cli"

func main() {
	cli.Execute()
}
