package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-autotranslate"
	"github.com/goliatone/go-autotranslate/internal/identity"
	"github.com/goliatone/go-autotranslate/internal/jobs"
	"github.com/goliatone/go-autotranslate/internal/validation"
)

func newTranslateCmd(opts *rootOptions) *cobra.Command {
	var (
		force  bool
		langs  []string
		useBus bool
	)
	cmd := &cobra.Command{
		Use:   "translate <content-type> <content-id>",
		Short: "Translate one content item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawType, rawID := args[0], args[1]
			id, err := uuid.Parse(rawID)
			if err != nil {
				return fmt.Errorf("invalid content id %q: %w", rawID, err)
			}

			ctx := cmd.Context()
			module, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer module.Close()

			if useBus {
				module.SubscribeCommands()
				err := module.Dispatch(ctx, autotranslate.TranslateContentCommand{
					ContentType: rawType,
					ContentID:   id,
					Force:       force,
					Languages:   langs,
				})
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), map[string]any{"success": true})
			}

			contentType, err := autotranslate.ParseContentType(rawType)
			if err != nil {
				return err
			}
			codes := make([]autotranslate.Language, 0, len(langs))
			for _, raw := range langs {
				code, err := autotranslate.ParseLanguage(raw)
				if err != nil {
					return err
				}
				codes = append(codes, code)
			}
			result, err := module.Trigger(ctx, autotranslate.TriggerRequest{
				ContentType: contentType,
				ContentID:   id,
				Force:       force,
				Languages:   codes,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"success":  result.Success,
				"message":  result.Message,
				"outcome":  result.Outcome,
				"provider": module.ProviderStats(),
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Retranslate languages that already have a row")
	cmd.Flags().StringSliceVar(&langs, "lang", nil, "Target languages (comma-separated, default: all)")
	cmd.Flags().BoolVar(&useBus, "dispatch", false, "Run through the command dispatcher")
	return cmd
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <content-type> <content-id>",
		Short: "Show per-language translation status for one item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			contentType, err := autotranslate.ParseContentType(args[0])
			if err != nil {
				return err
			}
			id, err := uuid.Parse(args[1])
			if err != nil {
				return fmt.Errorf("invalid content id %q: %w", args[1], err)
			}

			module, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer module.Close()

			status, err := module.Status(cmd.Context(), contentType, id)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), status)
		},
	}
}

func newCoverageCmd(opts *rootOptions) *cobra.Command {
	var section string
	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Report translation coverage for every section",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter *autotranslate.ContentType
			if section != "" {
				contentType, err := autotranslate.ParseContentType(section)
				if err != nil {
					return err
				}
				filter = &contentType
			}

			module, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer module.Close()

			report, err := module.Coverage(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&section, "section", "", "Restrict the report to one content type")
	return cmd
}

func newBackfillCmd(opts *rootOptions) *cobra.Command {
	var (
		types     []string
		langs     []string
		batchSize int
	)
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Translate every eligible item that is missing languages",
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer module.Close()

			msg := autotranslate.BackfillTranslationsCommand{ContentTypes: types, Languages: langs, BatchSize: batchSize}
			if err := msg.Validate(); err != nil {
				return err
			}

			selected := make([]autotranslate.ContentType, 0, len(types))
			for _, raw := range types {
				contentType, _ := autotranslate.ParseContentType(raw)
				selected = append(selected, contentType)
			}
			workerOpts := []jobs.Option{jobs.WithBatchSize(batchSize), jobs.WithContentTypes(selected...)}
			if len(langs) > 0 {
				codes := make([]autotranslate.Language, 0, len(langs))
				for _, raw := range langs {
					code, _ := autotranslate.ParseLanguage(raw)
					codes = append(codes, code)
				}
				workerOpts = append(workerOpts, jobs.WithLanguages(codes...))
			}

			summary, err := module.Backfill(cmd.Context(), workerOpts...)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), summary)
		},
	}
	cmd.Flags().StringSliceVar(&types, "type", nil, "Content types to process (comma-separated, default: all)")
	cmd.Flags().StringSliceVar(&langs, "lang", nil, "Target languages (comma-separated, default: all)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Maximum items per content type (0 = no limit)")
	return cmd
}

type seedItem struct {
	ID          uuid.UUID      `json:"id"`
	ContentType string         `json:"content_type"`
	Status      string         `json:"status"`
	Fields      map[string]any `json:"fields"`
	CreatedAt   time.Time      `json:"created_at"`
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <items.json>",
		Short: "Load source-language items from a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var items []seedItem
			if err := json.Unmarshal(raw, &items); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			module, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer module.Close()

			created := make([]uuid.UUID, 0, len(items))
			for i, entry := range items {
				contentType, err := autotranslate.ParseContentType(entry.ContentType)
				if err != nil {
					return fmt.Errorf("item %d: %w", i, err)
				}
				if err := validation.ValidateItemFields(contentType, entry.Fields); err != nil {
					return fmt.Errorf("item %d: %w", i, err)
				}
				if entry.ID == uuid.Nil {
					entry.ID = seedID(contentType, entry.Fields)
				}
				if entry.CreatedAt.IsZero() {
					entry.CreatedAt = time.Now().UTC()
				}
				item, err := module.Items().Create(cmd.Context(), &autotranslate.Item{
					ID:          entry.ID,
					ContentType: contentType,
					Status:      entry.Status,
					Fields:      entry.Fields,
					CreatedAt:   entry.CreatedAt,
					UpdatedAt:   entry.CreatedAt,
				})
				if err != nil {
					return fmt.Errorf("item %d: %w", i, err)
				}
				created = append(created, item.ID)
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{"created": created})
		},
	}
}

// seedID keeps re-seeding idempotent for items that carry a slug or title.
func seedID(contentType autotranslate.ContentType, fields map[string]any) uuid.UUID {
	for _, key := range []string{"slug", "title"} {
		if value, ok := fields[key].(string); ok {
			if id := identity.ItemUUID(contentType.String(), value); id != uuid.Nil {
				return id
			}
		}
	}
	return uuid.New()
}

func newImportMarkdownCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import-markdown <dir>",
		Short: "Create blog items from Markdown posts with YAML frontmatter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer module.Close()

			result, err := module.ImportMarkdown(cmd.Context(), os.DirFS(args[0]), ".")
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
}
