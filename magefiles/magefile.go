//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Build tidies deps, then compiles to ./bin/payroll-server.
func Build() error {
	mg.Deps(Tidy)
	fmt.Println(">> Building server binary...")
	return sh.Run("go", "build", "-o", "bin/payroll-server", "./cmd/server")
}

// Run builds then executes the binary with .env applied.
func Run() error {
	mg.Deps(Build)
	env, err := godotenv.Read()
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	fmt.Println(">> Starting server...")
	return sh.RunWithV(env, "./bin/payroll-server")
}

// Tidy runs go mod tidy.
func Tidy() error {
	fmt.Println(">> go mod tidy...")
	return sh.Run("go", "mod", "tidy")
}

// Vet runs go vet over every package.
func Vet() error {
	fmt.Println(">> go vet...")
	return sh.Run("go", "vet", "./...")
}

// Test runs all unit tests with the race detector.
func Test() error {
	mg.Deps(Vet)
	fmt.Println(">> Running tests...")
	return sh.Run("go", "test", "-race", "./...")
}

// Clean removes build output.
func Clean() error {
	fmt.Println(">> Cleaning bin/...")
	return sh.Rm("bin")
}
