package main

import "github.com/KaramelBytes/gymdash/cmd"

func main() {
	cmd.Execute()
}
