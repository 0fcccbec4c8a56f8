package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scriptory/internal/domain"
	"scriptory/internal/domain/models"
	"scriptory/internal/domain/services"
	"scriptory/internal/utils"
)

const welcomeContent = `# Welcome to Scriptory

Your documentation lives right here in the project, as plain files you
can read, grep and commit.

## Getting around

- Create documents through the API or your editor
- Every content change is versioned automatically
- Search works across titles, content and tags

Happy writing!
`

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the docs directory with a welcome document",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := buildApp()

			if err := os.MkdirAll(a.cfg.DocsDir, 0o755); err != nil {
				return err
			}

			doc, err := a.docs.CreateDocument(context.Background(), &services.CreateDocumentRequest{
				Title:   "Welcome to Scriptory",
				Icon:    "👋",
				Content: welcomeContent,
				Tags:    []string{"getting-started"},
			})
			if err != nil {
				var conflictErr *domain.ConflictError
				if errors.As(err, &conflictErr) {
					fmt.Fprintf(cmd.OutOrStdout(), "Already initialized at %s\n", a.cfg.DocsDir)
					return nil
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s with document %q\n", a.cfg.DocsDir, doc.ID)
			return nil
		},
	}
}

func newReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from the document store",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := buildApp()

			count, err := a.docs.ReindexAll(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d documents\n", count)
			return nil
		},
	}
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search documents from the command line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := buildApp()

			results := a.index.Search(args[0], models.SearchFilters{})
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No results")
				return nil
			}
			for _, result := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%-40s %s (score %d)\n", result.ID, result.Title, result.Score)
			}
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <id>",
		Short: "Print a document as markdown with YAML frontmatter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := buildApp()

			doc, err := a.docs.GetDocument(context.Background(), args[0])
			if err != nil {
				return err
			}

			rendered, err := utils.RenderFrontmatter(&utils.Frontmatter{
				Title: doc.Title,
				Icon:  doc.Icon,
				Tags:  doc.Tags,
			}, doc.Content)
			if err != nil {
				return err
			}
			cmd.OutOrStdout().Write(rendered)
			return nil
		},
	}
}
