package main

import "github.com/chrisdamba/foodmatch/cmd"

func main() {
	cmd.Execute()
}
