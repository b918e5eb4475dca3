package main

import "github.com/rise-and-shine/catalog/cli"

func main() {
	cli.Execute()
}
