package main

import "github.com/goplus/build-mad-pascal/cmd/build-mad-pascal/internal"

func main() {
	internal.Execute()
}
