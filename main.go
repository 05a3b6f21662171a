package main

import "github.com/foodgram-api/cmd"

func main() {
	cmd.Execute()
}
