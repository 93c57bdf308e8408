package main

import "github.com/beanbocchi/multipart/cmd"

func main() {
	cmd.Execute()
}
