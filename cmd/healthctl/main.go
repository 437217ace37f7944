// Command healthctl is the operator tool: model initialization, admin
// provisioning, offline triage, a scripted demo and the MCP stdio server.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
