package main

import "github.com/OpenTraceLab/qucsnet/cmd/qnet/cmd"

func main() {
	cmd.Execute()
}
