package main

import "github.com/depforge/depforge/cmd/depforge/internal"

func main() {
	internal.Execute()
}
