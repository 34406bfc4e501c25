// cmd/burrow/main.go
package main

import "os"

var version = "0.3.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
