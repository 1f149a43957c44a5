package main

import "github.com/oshokin/rtc-alarm/cmd/rtc-alarmctl/cmd"

func main() {
	cmd.Execute()
}
