// Command passwd prints the bcrypt hash to put in admin.password_hash.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/niksmo/shop-pos/internal/adapter/auth"
	"github.com/spf13/pflag"
)

const passwordFlag = "password"

func main() {
	password := pflag.StringP(passwordFlag, "p", "", "admin password, read from stdin if empty")
	pflag.Parse()

	if *password == "" {
		*password = readStdin()
	}
	if *password == "" {
		fmt.Fprintf(os.Stderr, "--%s flag or stdin: required\n", passwordFlag)
		os.Exit(2)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}

func readStdin() string {
	s := bufio.NewScanner(os.Stdin)
	if !s.Scan() {
		return ""
	}
	return strings.TrimSpace(s.Text())
}
