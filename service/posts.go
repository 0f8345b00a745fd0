package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"folio/app/cms"
	"folio/app/models"
	"folio/app/render"
	"folio/app/services"
)

const titleWidth = 48

func (c *cli) postsCommand() *cobra.Command {
	var preview bool
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Inspect the posts the blog would serve",
	}
	cmd.PersistentFlags().BoolVar(&preview, "preview", false, "read draft content from the preview API")

	var asJSON bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			posts := c.blogService().GetBlogPosts(cmd.Context(), preview)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(posts)
			}
			writePostTable(cmd.OutOrStdout(), posts)
			return nil
		},
	}
	listCmd.Flags().BoolVar(&asJSON, "json", false, "print posts as JSON")

	var style string
	showCmd := &cobra.Command{
		Use:   "show <slug>",
		Short: "Render a post in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			post, err := c.blogService().GetPost(cmd.Context(), args[0], preview)
			if err != nil {
				return err
			}
			doc, err := postMarkdown(post)
			if err != nil {
				return err
			}
			if style == "raw" {
				_, err = io.WriteString(cmd.OutOrStdout(), doc)
				return err
			}
			out, err := renderMarkdown(doc, style)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}
	showCmd.Flags().StringVar(&style, "style", "auto", "glamour style (auto, dark, light, notty) or raw for plain Markdown")

	cmd.AddCommand(listCmd, showCmd)
	return cmd
}

func (c *cli) blogService() *services.BlogService {
	clients := cms.NewClients(c.cfg.Contentful, c.logger.Named("cms"))
	fetcher := cms.NewFetcher(clients, c.logger.Named("cms"))
	return services.NewBlogService(fetcher, c.cfg.Preview.Enabled, c.logger.Named("blog"))
}

// writePostTable prints one post per line in aligned columns.
func writePostTable(w io.Writer, posts []models.Post) {
	status := services.StatusOf(posts)
	fmt.Fprintf(w, "%s\n\n", status.Message())

	slugWidth := len("SLUG")
	for _, p := range posts {
		slugWidth = max(slugWidth, runewidth.StringWidth(p.Slug))
	}

	fmt.Fprintf(w, "%-10s  %-10s  %s  %s\n", "DATE", "SOURCE", runewidth.FillRight("SLUG", slugWidth), "TITLE")
	for _, p := range posts {
		title := runewidth.Truncate(p.Title, titleWidth, "…")
		if p.Featured {
			title += " *"
		}
		fmt.Fprintf(w, "%-10s  %-10s  %s  %s\n",
			p.DateString(), p.Source.Label(), runewidth.FillRight(p.Slug, slugWidth), title)
	}
}

// postMarkdown renders post as a Markdown document.
func postMarkdown(post *models.Post) (string, error) {
	body, err := render.Markdown(post.Content)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", post.Title)
	fmt.Fprintf(&b, "_%s · Source: %s_\n\n", post.FormattedDate(), post.Source.Label())
	if post.HasTags() {
		fmt.Fprintf(&b, "Tags: %s\n\n", strings.Join(post.Tags, ", "))
	}
	if post.Excerpt != "" {
		fmt.Fprintf(&b, "> %s\n\n", post.Excerpt)
	}
	b.WriteString(body)
	return b.String(), nil
}

func renderMarkdown(doc, style string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(80)}
	if style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(doc)
	if err != nil {
		return "", fmt.Errorf("failed to render post: %w", err)
	}
	return out, nil
}
