package main

import (
	"os"

	"stormlightlabs.org/draftassistant/cli"
	"stormlightlabs.org/draftassistant/internal/echo"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		echo.Errorf("%v", err)
		os.Exit(1)
	}
}
