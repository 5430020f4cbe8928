package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/billbook/constants"
	"github.com/joseph-ayodele/billbook/internal/llm"
	"github.com/joseph-ayodele/billbook/internal/llm/openai"
	"github.com/joseph-ayodele/billbook/internal/logger"
	"github.com/joseph-ayodele/billbook/internal/normalize"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Run normalization and extraction on a local document and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("LLM_API_KEY env var is required")
		}
		path := args[0]
		ext := constants.NormalizeExt(filepath.Ext(path))
		if _, ok := constants.AllowedExtensions[ext]; !ok {
			return fmt.Errorf("unsupported file extension %q", filepath.Ext(path))
		}
		kind, _ := constants.KindForContentType(constants.ContentTypeForExt(ext))

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		base := logger.GetLogger()
		payload, err := normalize.New(normalize.Options{}, base).Normalize(data, kind)
		if err != nil {
			return err
		}

		provider := openai.NewProvider(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
		}, base)
		client, err := llm.NewClient(provider, cfg.LLM.Timeout, base)
		if err != nil {
			return err
		}

		out := client.Extract(cmd.Context(), payload)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"status":         out.Status,
			"reason":         out.Reason,
			"extracted_data": out.Data,
		})
	},
}
