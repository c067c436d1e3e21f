//go:build ignore

package main

import (
	"fmt"
	"os"

	"github.com/ormasoftchile/casetmpl/pkg/schema"
)

func main() {
	data, err := schema.GenerateCaseJSONSchema()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile("schemas/case-v0.json", data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("wrote schemas/case-v0.json")

	libData, err := schema.GenerateLibraryJSONSchema()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating library schema: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile("schemas/library-v0.json", libData, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("wrote schemas/library-v0.json")
}
