package main

import "github.com/welcomedesk/userservice/cmd"

func main() {
	cmd.Execute()
}
