// Package main provides the entry point for the resume-pilot CLI and server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_pilot",
	Short: "Resume tailoring pipeline",
	Long:  "resume-pilot fetches a job posting, extracts what the employer is looking for, rewrites a base resume to match, renders it to PDF, and scores the result against the posting.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
