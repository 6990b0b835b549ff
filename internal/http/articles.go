package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"conduit/internal/domain"
	"conduit/internal/service"
	"conduit/internal/view"
)

type articlePayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Body        string   `json:"body"`
	TagList     []string `json:"tagList"`
}

type createArticleRequest struct {
	Article *articlePayload `json:"article"`
}

type articleResponse struct {
	Article view.Article `json:"article"`
}

type articleListResponse struct {
	Articles      []view.Article `json:"articles"`
	ArticlesCount int            `json:"articlesCount"`
}

func (h *Handler) createArticle(c *gin.Context) {
	var req createArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, domain.InvalidParameter("invalid parameter error: "+err.Error()))
		return
	}
	if req.Article == nil {
		h.respondError(c, domain.Internal(`malformed request: article payload must be wrapped in "article"`, nil))
		return
	}

	authorID := viewerID(c)
	article, err := h.articles.CreateArticle(c.Request.Context(), authorID, service.ArticleInput{
		Title:       req.Article.Title,
		Description: req.Article.Description,
		Body:        req.Article.Body,
		TagList:     req.Article.TagList,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	// the author is the viewer here
	c.JSON(http.StatusCreated, articleResponse{Article: view.NewArticle(*article, *article.Author, article.Author)})
}

func (h *Handler) listArticles(c *gin.Context) {
	limit, offset, err := pagination(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	page, err := h.articles.ListArticles(c.Request.Context(), viewerID(c), service.ListQuery{
		Limit:     limit,
		Offset:    offset,
		Tag:       c.Query("tag"),
		Author:    c.Query("author"),
		Favorited: c.Query("favorited"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, articleListResponse{Articles: page.Articles, ArticlesCount: page.Count})
}

func (h *Handler) feed(c *gin.Context) {
	limit, offset, err := pagination(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	page, err := h.articles.Feed(c.Request.Context(), viewerID(c), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, articleListResponse{Articles: page.Articles, ArticlesCount: page.Count})
}

func pagination(c *gin.Context) (int, int, error) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultLimit)))
	if err != nil || limit < 0 {
		return 0, 0, domain.InvalidParameter("invalid parameter error: limit must be a non-negative integer")
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", strconv.Itoa(service.DefaultOffset)))
	if err != nil || offset < 0 {
		return 0, 0, domain.InvalidParameter("invalid parameter error: offset must be a non-negative integer")
	}
	return limit, offset, nil
}
