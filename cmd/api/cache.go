package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/markdave123-py/doctranslate/internal/config"
	db "github.com/markdave123-py/doctranslate/internal/core/database"
)

var olderThan time.Duration

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the translation memory",
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete translation memory entries not used recently",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if cfg.TranslationCacheDSN == "" {
			return errors.New("TRANSLATION_CACHE_DSN is not set")
		}

		mem, err := db.NewTranslationMemory(cmd.Context(), cfg.TranslationCacheDSN)
		if err != nil {
			return fmt.Errorf("failed to open translation memory: %w", err)
		}
		defer mem.Close()

		n, err := mem.Prune(cmd.Context(), time.Now().Add(-olderThan))
		if err != nil {
			return fmt.Errorf("failed to prune: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries.\n", n)
		return nil
	},
}

func init() {
	cachePruneCmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "remove entries last used before this long ago")
	cacheCmd.AddCommand(cachePruneCmd)
	rootCmd.AddCommand(cacheCmd)
}
