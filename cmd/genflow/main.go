// Command genflow submits generation requests to a job service and
// resolves them through the local result cache.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "genflow:", err)
		os.Exit(1)
	}
}
