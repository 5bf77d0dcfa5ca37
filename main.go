/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/harari-inventory/apiserver/cmd"

func main() {
	cmd.Execute()
}
