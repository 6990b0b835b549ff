package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"conduit/internal/view"
)

type profileResponse struct {
	Profile view.Profile `json:"profile"`
}

func (h *Handler) getProfile(c *gin.Context) {
	profile, err := h.profiles.GetProfile(c.Request.Context(), c.Param("username"), viewerID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileResponse{Profile: profile})
}

func (h *Handler) follow(c *gin.Context) {
	profile, err := h.profiles.Follow(c.Request.Context(), viewerID(c), c.Param("username"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileResponse{Profile: profile})
}

func (h *Handler) unfollow(c *gin.Context) {
	profile, err := h.profiles.Unfollow(c.Request.Context(), viewerID(c), c.Param("username"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileResponse{Profile: profile})
}

func (h *Handler) listTags(c *gin.Context) {
	tags, err := h.tags.ListTags(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}
