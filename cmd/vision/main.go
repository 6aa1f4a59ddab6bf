package main

import "github.com/saivivek-01/VISION/internal/cli"

func main() { cli.Main() }
