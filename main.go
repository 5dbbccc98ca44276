package main

import "github.com/HaiFongPan/hanbatbox-cli/cmd"

func main() {
	cmd.Execute()
}
