package handlers

import (
	"fmt"
	"strings"
	"time"

	"solarsite/internal/taxonomy"
)

// productInput is the admin-facing payload for creating or updating a product.
type productInput struct {
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Description   string   `json:"description"`
	Image         string   `json:"image"`
	Type          string   `json:"type"`
	Category      string   `json:"category"`
	SubCategory   string   `json:"subCategory"`
	ExtraCategory *string  `json:"extraCategory"`
	Features      []string `json:"features"`
}

func (in *productInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fmt.Errorf("name is required")
	}
	if in.Description == "" {
		return fmt.Errorf("description is required")
	}
	if in.Category == "" || in.SubCategory == "" {
		return fmt.Errorf("category and subCategory are required")
	}
	if in.ExtraCategory != nil && *in.ExtraCategory == "" {
		in.ExtraCategory = nil
	}
	if err := taxonomy.Check(in.Category, in.SubCategory, in.ExtraCategory); err != nil {
		return err
	}
	return nil
}

// blogInput is the admin-facing payload for creating or updating a blog post.
type blogInput struct {
	Title    string       `json:"title"`
	Author   string       `json:"author"`
	Date     *time.Time   `json:"date"`
	ReadTime string       `json:"readTime"`
	Category string       `json:"category"`
	Image    string       `json:"image"`
	Excerpt  string       `json:"excerpt"`
	Blocks   []blockInput `json:"blocks"`
}

type blockInput struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	URL     string `json:"url,omitempty"`
	Caption string `json:"caption,omitempty"`
}

func (in *blogInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return fmt.Errorf("title is required")
	}
	if in.Author == "" {
		return fmt.Errorf("author is required")
	}
	for i, b := range in.Blocks {
		switch b.Type {
		case "text":
			if b.Content == "" {
				return fmt.Errorf("block %d: text block requires content", i)
			}
		case "image":
			if b.URL == "" {
				return fmt.Errorf("block %d: image block requires url", i)
			}
		default:
			return fmt.Errorf("block %d: unknown block type %q", i, b.Type)
		}
	}
	return nil
}
