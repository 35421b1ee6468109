// cmd/autoload/main.go
//
// Entry point for the autoload CLI. It reads a namespace map, builds a PSR-4
// resolver from it and lets you inspect or exercise resolution:
//
//	autoload table                 show the namespace map
//	autoload resolve 'Acme\Widget' print the file a name resolves to
//	autoload run 'Acme\Widget'     execute it in the embedded Go interpreter
//	autoload browse                interactive namespace browser

package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}
