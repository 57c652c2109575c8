/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/wentf9/cisco-mcp/cmd"

func main() {
	cmd.Execute()
}
