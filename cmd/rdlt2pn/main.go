package main

import "github.com/L8zn/CMSC-199.2-Thesis/cmd/rdlt2pn/cmd"

func main() {
	cmd.Execute()
}
