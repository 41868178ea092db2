package main

import "github.com/shizukutanaka/hashbench/cmd/hashbench/commands"

func main() {
	commands.Execute()
}
