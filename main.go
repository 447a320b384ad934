package main

import "github.com/dealstackr/dealstackr/cmd"

func main() {
	cmd.Execute()
}
