package main

import (
	"log"

	"github.com/mentorflow/mentor-match/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
