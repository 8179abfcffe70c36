package main

import "github.com/zhou-zzz/blog/cmd"

func main() {
	cmd.Execute()
}
