package main

import "github.com/Rrens/storefront-assistant/internal/cli"

func main() {
	cli.Execute()
}
