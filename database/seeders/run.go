// Package seeders holds the dev/demo data seeders.
//
// Seeders self-register from init() and run in registration order via
// the chefhut db:seed command.
package seeders

import (
	"context"
	"fmt"
)

type seeder struct {
	name string
	run  func(ctx context.Context) error
}

// registry is append-only; registration only happens from init() funcs,
// before any goroutines exist.
var registry []seeder

// Register adds a named seeder to the run list.
func Register(name string, run func(ctx context.Context) error) {
	registry = append(registry, seeder{name: name, run: run})
}

// RunAll executes every registered seeder in order, stopping at the
// first failure.
func RunAll(ctx context.Context) error {
	if len(registry) == 0 {
		fmt.Println("  (no seeders registered)")
		return nil
	}
	for _, s := range registry {
		fmt.Printf("  • Running seeder: %s … ", s.name)
		if err := s.run(ctx); err != nil {
			fmt.Println("FAILED")
			return fmt.Errorf("seeder %q: %w", s.name, err)
		}
		fmt.Println("done")
	}
	return nil
}
