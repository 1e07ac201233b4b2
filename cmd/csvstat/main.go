// csvstat prints summary statistics of one numeric column of a CSV file.
//
// Exit codes: 0 on success, 2 for invalid arguments, 3 for I/O errors, 4 for
// malformed input, 5 when the column is not in the header, 6 when a buffer
// limit is exceeded and 10 for internal errors.
package main

import "os"

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
