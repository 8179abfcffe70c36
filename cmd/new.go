package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/zhou-zzz/blog/internal/model"
	"github.com/zhou-zzz/blog/internal/site"
)

// ErrPostExists is returned when the scaffolded file is already present.
var ErrPostExists = errors.New("post already exists")

// postFrontmatter is the frontmatter written for a new post.
type postFrontmatter struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Description string   `yaml:"description,omitempty"`
	Tag         []string `yaml:"tag,omitempty"`
	Image       string   `yaml:"image,omitempty"`
	Plum        bool     `yaml:"plum,omitempty"`
}

func newNewCmd(a *app) *cobra.Command {
	var (
		fm    postFrontmatter
		force bool
	)

	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Creates a new post in the content directory",
		Long: `The new command writes content/posts/<slug>.md with frontmatter filled in
from the flags, ready for writing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fm.Title = args[0]
			if fm.Date == "" {
				fm.Date = time.Now().Format(model.DateLayout)
			} else if _, err := time.Parse(model.DateLayout, fm.Date); err != nil {
				return fmt.Errorf("invalid --date %q, use YYYY-MM-DD: %w", fm.Date, err)
			}

			slug := site.Slugify(fm.Title)
			if slug == "" {
				return fmt.Errorf("title %q has no characters usable in a file name", fm.Title)
			}
			path := filepath.Join(a.config.ContentDir, model.TypePosts, slug+".md")

			if err := writePost(path, fm, force); err != nil {
				return err
			}
			a.logger.Info().Str("path", path).Msg("created post")
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&fm.Date, "date", "", "post date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&fm.Description, "description", "d", "", "post description")
	cmd.Flags().StringSliceVarP(&fm.Tag, "tag", "t", nil, "post tag, repeatable")
	cmd.Flags().StringVar(&fm.Image, "image", "", "cover image URL")
	cmd.Flags().BoolVar(&fm.Plum, "plum", false, "mark the post as plum")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing post")
	return cmd
}

func writePost(path string, fm postFrontmatter, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrPostExists, path)
		}
	}

	header, err := yaml.Marshal(fm)
	if err != nil {
		return fmt.Errorf("marshal frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")

	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	return nil
}
