// Package cmd/chefhut provides the Chefhut backend CLI.
//
// Run the API server:
//
//	chefhut serve          # start the HTTP server
//
// Operational commands:
//
//	chefhut db:index       # sync MongoDB indexes
//	chefhut db:seed        # seed admin user and sample meals
//	chefhut queue:work     # start queue workers (-w to set the count)
//	chefhut schedule:run   # start the task scheduler standalone
//	chefhut route:list     # list API routes
//
// `serve` runs the queue workers and the scheduler in-process; the
// standalone queue:work and schedule:run commands exist for deployments
// that split background work onto separate processes.
package main
