package main

import (
	"log"
	"os"
	stdos "os"
)

func main() {
	defer func() {
		os.Exit(3)
	}()

	if len(os.Args) > 3 {
		log.Fatalf("too many args: %d", len(os.Args)) // want `вызов log.Fatalf в функции main запрещён`
	}
	if len(os.Args) > 2 {
		log.Fatal("bad args") // want `вызов log.Fatal в функции main запрещён`
	}
	if len(os.Args) > 1 {
		stdos.Exit(2) // want `вызов os.Exit в функции main запрещён`
	}
	os.Exit(0) // want `вызов os.Exit в функции main запрещён`
}

func helper() {
	os.Exit(1)
}
