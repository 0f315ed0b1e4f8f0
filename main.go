package main

import "github.com/dyike/StockSage/internal/cli"

func main() {
	cli.Run()
}
