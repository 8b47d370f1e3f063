package main

import (
	"flag"
	"log"

	"ficengine/bootstrap"
)

func main() {
	flag.Parse()
	if err := bootstrap.Run(); err != nil {
		log.Fatal(err)
	}
}
