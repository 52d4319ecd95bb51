package main

import (
	"fmt"
	"log"
	"os"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// Generates a bcrypt hash for seeding or resetting a cashier's
// password or login PIN from the command line.
//
//	go run scripts/generate_password.go <password>
//	go run scripts/generate_password.go -pin <4-6 digits>
func main() {
	args := os.Args[1:]
	if len(args) < 1 {
		log.Fatal("Usage: go run scripts/generate_password.go [-pin] <secret>")
	}

	isPIN := false
	if args[0] == "-pin" {
		isPIN = true
		args = args[1:]
		if len(args) < 1 {
			log.Fatal("Usage: go run scripts/generate_password.go -pin <4-6 digits>")
		}
	}

	secret := args[0]
	if isPIN && !regexp.MustCompile(`^\d{4,6}$`).MatchString(secret) {
		log.Fatal("PIN must be 4 to 6 digits")
	}

	cost := 12
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		log.Fatal("Error generating hash:", err)
	}

	if isPIN {
		fmt.Printf("PIN: %s\n", secret)
	} else {
		fmt.Printf("Password: %s\n", secret)
	}
	fmt.Printf("Hash: %s\n", string(hash))

	err = bcrypt.CompareHashAndPassword(hash, []byte(secret))
	if err != nil {
		log.Fatal("Hash verification failed:", err)
	}

	fmt.Println("✅ Hash verified successfully!")
}
