package main

import "github.com/oshokin/rtc-alarm/cmd/rtc-alarmd/cmd"

func main() {
	cmd.Execute()
}
