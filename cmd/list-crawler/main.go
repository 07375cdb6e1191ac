package main

import (
	cmd "github.com/rohmanhakim/list-crawler/internal/cli"
)

func main() {
	cmd.Execute()
}
