package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-analyzer/internal/services"
)

var vocabularyCmd = &cobra.Command{
	Use:   "vocabulary",
	Short: "List the recognized skills by category",
	Args:  cobra.NoArgs,
	RunE:  runVocabulary,
}

var vocabularyCategory string

func init() {
	vocabularyCmd.Flags().StringVarP(&vocabularyCategory, "category", "c", "", "Only list this category")

	rootCmd.AddCommand(vocabularyCmd)
}

func runVocabulary(cmd *cobra.Command, _ []string) error {
	vocab := services.DefaultVocabulary
	out := cmd.OutOrStdout()

	categories := vocab.Categories()
	if vocabularyCategory != "" {
		if len(vocab.Skills(vocabularyCategory)) == 0 {
			return fmt.Errorf("unknown category %q (known: %s)", vocabularyCategory, strings.Join(categories, ", "))
		}
		categories = []string{vocabularyCategory}
	}

	for _, category := range categories {
		fmt.Fprintf(out, "%s:\n  %s\n", category, strings.Join(vocab.Skills(category), ", "))
	}
	fmt.Fprintf(out, "\n%d skills in %d categories\n", vocab.Size(), len(vocab.Categories()))
	return nil
}
