package main

import "embryo.dev/pkg/embryo/cmd"

func main() {
	cmd.Execute()
}
