package main

import "github.com/Jakababa94/kenya-liga-hub/cmd"

func main() {
	cmd.Execute()
}
