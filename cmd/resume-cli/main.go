// Package main provides a command-line front end to the resume analysis pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "resume-cli",
	Short:        "Analyze resumes from the command line",
	Long:         "resume-cli extracts text from a PDF resume, detects skills and seniority, scores the profile and prints the analysis envelope as JSON.",
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
