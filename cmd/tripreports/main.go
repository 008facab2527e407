package main

import (
	"ulhiking-backend/cmd/tripreports/cmd"
)

func main() {
	cmd.Execute()
}
