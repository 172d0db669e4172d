package main

import "github.com/questdb-sdk/questdb-go/internal/cli"

func main() {
	cli.Execute()
}
