// Command addressbook is an interactive address book.
package main

import "github.com/mesh-intelligence/addressbook/internal/cli"

func main() {
	cli.Execute()
}
