package main

import "github.com/lepinkainen/athenaeum/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
