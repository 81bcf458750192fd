package main

import "github.com/fakhrymubarak/weather-dashboard/internal/cli"

func main() {
	cli.Execute()
}
