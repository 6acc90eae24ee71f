// Package main provides the entry point for the Interview Coach CLI and API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "interview_agent",
	Short: "AI-driven mock interview coach",
	Long:  "Interview Coach runs AI-driven mock interviews tailored to a candidate's resume and a target job description: it plans questions, analyzes answers against retrieved document context, and produces a final performance report.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
