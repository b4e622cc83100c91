package main

import "github.com/inovacc/boardsync/cmd"

func main() {
	cmd.Execute()
}
