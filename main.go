package main

import (
	"github.com/review-io-git/review-io/cmd"
)

func main() {
	cmd.Execute()
}
