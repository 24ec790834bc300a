package main

import "kinetic/cmd/kinetic/cmd"

func main() {
	cmd.Execute()
}
