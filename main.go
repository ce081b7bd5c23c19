package main

import "github.com/seekgits/seekgits/cmd"

func main() {
	cmd.Execute()
}
