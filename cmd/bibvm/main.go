package main

import (
	"embed"
	"fmt"
	"os"

	"github.com/zurustar/bibvm/pkg/app"
)

//go:embed styles
var embeddedStyles embed.FS

func main() {
	application := app.New(embeddedStyles)
	if err := application.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
