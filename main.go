// Command penpipe fetches CodePen pens for agents (over MCP) and for the terminal.
package main

import "github.com/gaurav-prasanna/penpipe/cmd"

func main() {
	cmd.Execute()
}
