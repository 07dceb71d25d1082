package main

import (
	"github.com/tutils/sprng/cmd"
)

func main() {
	cmd.Execute()
}
