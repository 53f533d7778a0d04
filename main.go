package main

import "parking_enforcement/cmd"

func main() {
	cmd.Execute()
}
