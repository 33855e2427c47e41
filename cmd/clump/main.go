// Command clump partitions graphs into disjoint sets.
package main

import "mycelica/clump/cmd"

func main() {
	cmd.Execute()
}
