package main

import "github.com/oxidrome/frecent/cmd"

func main() {
	cmd.Execute()
}
