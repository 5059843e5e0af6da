package main

import "martianoff/enumdispatch/cmd/enumdispatch/commands"

func main() {
	commands.Execute()
}
