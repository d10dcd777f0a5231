package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "doctranslate",
	Short: "Translate PDF and DOCX documents into PDF",
	Long: `doctranslate extracts the text of a PDF or DOCX document, checks that it is
written in the declared source language, translates it with an LLM and renders
the result as a PDF.

Run "doctranslate serve" for the HTTP API or "doctranslate translate" for a
single local document.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
