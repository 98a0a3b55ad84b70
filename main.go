package main

import "github.com/davebream/mcpreflect/cmd"

func main() {
	cmd.Execute()
}
