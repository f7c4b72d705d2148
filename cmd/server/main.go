// Plain server entry point. The chefhut CLI (cmd/chefhut) wraps the same
// boot path plus the operational commands.
package main

import (
	"log"

	"github.com/shashiranjanraj/chefhut/internal/server"
)

func main() {
	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
}
