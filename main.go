// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/craftpack/craftpack/cmd/craftpack"

func main() {
	cmd.Execute()
}
