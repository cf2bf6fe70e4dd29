// Command keygen prints a random signing secret suitable for JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"os"

	"project-service/pkg/keygen"
)

func main() {
	size := flag.Int("bytes", keygen.DefaultSize, "number of random bytes before encoding")
	flag.Parse()

	secret, err := keygen.Secret(*size)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println(secret)
}
