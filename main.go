/*
Copyright © 2025 Pranav J
*/
package main

import "github.com/pranavj/assignsync/cmd"

func main() {
	cmd.Execute()
}
