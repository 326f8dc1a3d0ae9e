package main

import (
	"os"

	"github.com/jesite/jesite/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
