package main

import "github.com/chrisdamba/hotelsim/cmd"

func main() {
	cmd.Execute()
}
