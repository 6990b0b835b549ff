package domain

import (
	"strings"
	"time"
)

// Tag is a canonical, uniquely named label attached to articles.
type Tag struct {
	ID   int64
	Name string
}

// Article is an authored post. Tags and Author are populated on read.
type Article struct {
	ID             int64
	Slug           string
	Title          string
	Description    string
	Body           string
	TagIDs         []int64
	Tags           []Tag
	FavoritesCount int
	AuthorID       int64
	Author         *User
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TagNames returns the tag names in stored order.
func (a Article) TagNames() []string {
	names := make([]string, len(a.Tags))
	for i := range a.Tags {
		names[i] = a.Tags[i].Name
	}
	return names
}

// HasTag reports whether one of the article's tags is named name.
func (a Article) HasTag(name string) bool {
	for _, tag := range a.Tags {
		if tag.Name == name {
			return true
		}
	}
	return false
}

// Validate checks the fields every stored article must carry.
func (a Article) Validate() error {
	var missing []string
	if a.Slug == "" {
		missing = append(missing, "slug: is required")
	}
	if a.Title == "" {
		missing = append(missing, "title: is required")
	}
	if a.Body == "" {
		missing = append(missing, "body: is required")
	}
	if a.AuthorID == 0 {
		missing = append(missing, "author: is required")
	}
	if len(missing) > 0 {
		return Conflict(strings.Join(missing, ", "))
	}
	return nil
}
