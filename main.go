package main

import "manthokha-backend/cmd"

func main() {
	cmd.Execute()
}
