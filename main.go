package main

import "github.com/Beastly713/stegano/cmd"

func main() {
	cmd.Execute()
}
