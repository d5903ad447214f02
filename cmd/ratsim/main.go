// Command ratsim is the entry point for the rat-swarm grid simulation
// (§6's abstracted CLI), generalized from the teacher's flag-driven
// main.go into a cobra root command (see cmd/root.go).
package main

import "ratswarm/cmd/ratsim/cmd"

func main() {
	cmd.Execute()
}
