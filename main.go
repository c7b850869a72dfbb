package main

import (
	"log"

	"github.com/smdata-dev/smdata/cmd"
)

func main() {
	webFS, err := getWebFS()
	if err != nil {
		log.Fatalf("failed to load web assets: %v", err)
	}
	cmd.WebFS = webFS
	cmd.Execute()
}
