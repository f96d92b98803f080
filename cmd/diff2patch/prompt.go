package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// confirmOverwrite asks on the terminal whether existing output content
// may be replaced. Anything that is not a clear yes declines.
func confirmOverwrite(path string) bool {
	fmt.Printf("%s: the output dir '%s' already exists. Proceeding will replace its content!\n",
		yellow("CAUTION"), path)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Type y/n : ")
		if !scanner.Scan() {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
	}
}
