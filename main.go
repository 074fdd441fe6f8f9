/*
Copyright © 2025 DerithAI
*/
package main

import "github.com/DerithAI/WOLF-AI/cmd"

func main() {
	cmd.Execute()
}
