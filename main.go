package main

import (
	"gitlab.grandhoo.com/rock/rock_cfd/cmd"
)

func main() {
	cmd.Execute()
}
