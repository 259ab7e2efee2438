package main

import "github.com/drixl/drixl-go/cmd"

func main() {
	cmd.Execute()
}
