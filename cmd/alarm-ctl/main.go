package main

import "github.com/oshokin/alarm-scheduler/cmd/alarm-ctl/cmd"

func main() {
	cmd.Execute()
}
