package main

import "perf-analyzer/src/handler/cli"

func main() {
	cli.Run()
}
