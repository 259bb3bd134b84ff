package main

import (
	"os"

	"github.com/GoAdminBase/GoAdminBase/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
