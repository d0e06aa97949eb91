package main

import (
	"os"

	"github.com/chriscorrea/searchtemplater/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
