package main

import "project-upgrader/internal/cli"

func main() {
	cli.Execute()
}
