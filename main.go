package main

import "github.com/jsphweid/notegrid/cmd"

func main() {
	cmd.Execute()
}
