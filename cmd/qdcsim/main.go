// cmd/qdcsim/main.go
package main

import "os"

func main() {
	if err := NewRootCommand(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
