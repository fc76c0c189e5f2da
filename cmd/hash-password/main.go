// CLI tool to create the bcrypt hash that protects the local API.
// Put the printed value in .env as AUTH_PASSWORD_HASH.
// Usage: go run ./cmd/hash-password
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Password: ")
	password, _ := reader.ReadString('\n')
	password = strings.TrimSpace(password)

	fmt.Print("Repeat password: ")
	repeat, _ := reader.ReadString('\n')
	repeat = strings.TrimSpace(repeat)

	hash, err := hashPassword(password, repeat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nAdd this line to .env:\n")
	fmt.Printf("  AUTH_PASSWORD_HASH='%s'\n", hash)
}

// hashPassword checks the two entries match and hashes them.
func hashPassword(password, repeat string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	if password != repeat {
		return "", fmt.Errorf("passwords do not match")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}
