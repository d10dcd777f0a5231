package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/markdave123-py/doctranslate/internal/app"
	"github.com/markdave123-py/doctranslate/internal/config"
	"github.com/markdave123-py/doctranslate/internal/core"
	"github.com/markdave123-py/doctranslate/internal/core/language"
	"github.com/markdave123-py/doctranslate/internal/core/translation_engine"
	"github.com/markdave123-py/doctranslate/internal/models"
)

var (
	inputPath  string
	outputPath string
	sourceLang string
	targetLang string
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate one local document",
	Example: `  doctranslate translate -i rapport.pdf -s french -t english
  doctranslate translate -i notes.docx -s en -t sw -o notes_sw.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		application, err := app.NewApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer application.Close()

		in, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer in.Close()

		stderr := cmd.ErrOrStderr()
		application.Pipeline.OnState = func(job *models.TranslationJob) {
			fmt.Fprintf(stderr, "  %-16s %s\n", job.State, job.ID)
		}

		table := language.NewTable(cfg.LanguageAliases)
		out, err := application.Pipeline.Run(cmd.Context(), translation_engine.Request{
			Filename:       filepath.Base(inputPath),
			Body:           in,
			SourceLanguage: resolveLanguage(table, sourceLang),
			TargetLanguage: resolveLanguage(table, targetLang),
		})
		if err != nil {
			var pe *core.PipelineError
			if errors.As(err, &pe) {
				return fmt.Errorf("%s (%w)", core.UserMessage(err), err)
			}
			return err
		}

		dest := outputPath
		if dest == "" {
			dest = filepath.Join(filepath.Dir(inputPath), out.Filename)
		}

		rc, err := application.Pipeline.OpenOutput(cmd.Context(), out.JobID, out.Filename)
		if err != nil {
			return err
		}
		defer rc.Close()

		f, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		if _, err := io.Copy(f, rc); err != nil {
			f.Close()
			return fmt.Errorf("write output: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", dest)
		return nil
	},
}

// resolveLanguage turns a flag value such as "fr", "Français" or "fr-CA" into
// the canonical name the pipeline admits. Unknown values pass through so
// admission reports them.
func resolveLanguage(table *language.Table, s string) string {
	if tag, ok := table.Resolve(s); ok {
		return tag.String()
	}
	return s
}

func init() {
	translateCmd.Flags().StringVarP(&inputPath, "input", "i", "", "PDF or DOCX document to translate")
	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", "", "declared source language (name or ISO code)")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "", "target language (name or ISO code)")
	translateCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output PDF path (default: next to the input)")
	_ = translateCmd.MarkFlagRequired("input")
	_ = translateCmd.MarkFlagRequired("source")
	_ = translateCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(translateCmd)
}
