package main

import "p9e.in/washreport/cmd"

func main() {
	cmd.Execute()
}
