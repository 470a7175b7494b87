package main

import (
	"github.com/foomo/itemmodel/cmd"
)

func main() {
	cmd.Execute()
}
