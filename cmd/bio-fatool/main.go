package main

import (
	"github.com/grailbio/coverbed/cmd/bio-fatool/cmd"
)

func main() {
	cmd.Run()
}
