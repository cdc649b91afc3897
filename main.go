package main

import "github.com/kozaktomas/photo-shortcode/cmd"

func main() {
	cmd.Execute()
}
