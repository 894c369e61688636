package main

import "github.com/noah-isme/course-scheduler-api/internal/cli"

func main() {
	cli.Execute()
}
