// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/Night1099/toolkit-remix-mcp/cmd/remixmcp"

func main() {
	cmd.Execute()
}
