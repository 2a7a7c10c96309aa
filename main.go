package main

import "github.com/thirdweb-dev/hmy-formatter/cmd"

func main() {
	cmd.Execute()
}
