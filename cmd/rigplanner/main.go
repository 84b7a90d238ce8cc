// Command rigplanner serves the PC build configurator API, exposes it as MCP
// tools and manages the persistent component catalog.
package main

func main() {
	Execute()
}
