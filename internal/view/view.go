// Package view turns stored records into the viewer-relative shapes returned
// to clients. Every function here is pure.
package view

import (
	"time"

	"conduit/internal/domain"
)

type Profile struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	Following bool   `json:"following"`
}

type User struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
	Token    string `json:"token"`
}

type Article struct {
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Body           string    `json:"body"`
	TagList        []string  `json:"tagList"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Favorited      bool      `json:"favorited"`
	FavoritesCount int       `json:"favoritesCount"`
	Author         Profile   `json:"author"`
}

func NewProfile(user domain.User, following bool) Profile {
	return Profile{
		Username:  user.Username,
		Bio:       user.Bio,
		Image:     user.Image,
		Following: following,
	}
}

// NewUser projects the authenticated user. An empty token is rendered as "".
func NewUser(user domain.User, token string) User {
	return User{
		Email:    user.Email,
		Username: user.Username,
		Bio:      user.Bio,
		Image:    user.Image,
		Token:    token,
	}
}

// NewArticle projects article for viewer; a nil viewer is anonymous.
// Favorited is read from viewer.Favorites, which nothing populates yet, so it
// is false in practice.
func NewArticle(article domain.Article, author domain.User, viewer *domain.User) Article {
	following := false
	favorited := false
	if viewer != nil {
		following = viewer.Follows(author.ID)
		favorited = viewer.HasFavorited(article.ID)
	}

	return Article{
		Slug:           article.Slug,
		Title:          article.Title,
		Description:    article.Description,
		Body:           article.Body,
		TagList:        article.TagNames(),
		CreatedAt:      article.CreatedAt,
		UpdatedAt:      article.UpdatedAt,
		Favorited:      favorited,
		FavoritesCount: article.FavoritesCount,
		Author:         NewProfile(author, following),
	}
}
