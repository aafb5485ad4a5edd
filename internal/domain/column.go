package domain

import (
	"fmt"
	"strings"
)

// Column represents one board column. Its ID never changes after creation.
type Column struct {
	ID    string
	Title string
}

// DefaultColumnTitle returns the title given to the n-th created column.
func DefaultColumnTitle(n int) string {
	return fmt.Sprintf("Column %d", n)
}

// NewColumn constructs a new value for this package.
func NewColumn(id, title string) (Column, error) {
	id = strings.TrimSpace(id)
	title = strings.TrimSpace(title)
	if id == "" {
		return Column{}, ErrInvalidID
	}
	if title == "" {
		return Column{}, ErrInvalidTitle
	}
	return Column{ID: id, Title: title}, nil
}

// Rename renames the column.
func (c *Column) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrInvalidTitle
	}
	c.Title = title
	return nil
}
