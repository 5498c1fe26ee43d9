// file: main.go
// version: 2.0.0
// guid: 3f0b0a8e-5c55-4b8e-9d0f-7e4c1b2a9d61

package main

import (
	"fmt"
	"os"

	"github.com/jdfalk/bookmeta/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
