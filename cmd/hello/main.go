// Command hello is the CLI half of the starter kit. It prints a greeting and
// exits; it exists so a freshly copied project has a working binary and test
// harness from the first commit.
package main

import "fmt"

func main() {
	fmt.Println(greeting())
}

func greeting() string {
	return "Hello, world!"
}
