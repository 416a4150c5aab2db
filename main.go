package main

import "cogsaver/cmd"

func main() {
	cmd.Execute()
}
