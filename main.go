package main

import "apibridge/cmd"

const Version = "v0.01.00"

func main() {
	cmd.Execute(Version)
}
