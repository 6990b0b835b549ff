package http

import (
	"bufio"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"conduit/internal/domain"
	"conduit/internal/service"
	"conduit/internal/view"
)

type credentialsRequest struct {
	User struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"user"`
}

type updateUserRequest struct {
	User struct {
		Email    *string `json:"email"`
		Username *string `json:"username"`
		Password *string `json:"password"`
		Bio      *string `json:"bio"`
		Image    *string `json:"image"`
	} `json:"user"`
}

type userResponse struct {
	User view.User `json:"user"`
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, domain.InvalidParameter("invalid parameter error: "+err.Error()))
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.User.Username, req.User.Email, req.User.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, user)
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, domain.InvalidParameter("invalid parameter error: "+err.Error()))
		return
	}

	user, err := h.users.Login(c.Request.Context(), req.User.Email, req.User.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusOK, user)
}

func (h *Handler) respondWithToken(c *gin.Context, status int, user *domain.User) {
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(status, userResponse{User: view.NewUser(*user, token)})
}

func (h *Handler) currentUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), viewerID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponse{User: view.NewUser(*user, c.GetString(ctxToken))})
}

func (h *Handler) updateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, domain.InvalidParameter("invalid parameter error: "+err.Error()))
		return
	}

	user, err := h.users.Update(c.Request.Context(), viewerID(c), service.UserChanges{
		Email:    req.User.Email,
		Username: req.User.Username,
		Password: req.User.Password,
		Bio:      req.User.Bio,
		Image:    req.User.Image,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponse{User: view.NewUser(*user, c.GetString(ctxToken))})
}

func (h *Handler) uploadImage(c *gin.Context) {
	if h.media == nil {
		h.respondError(c, domain.Internal("storage service not configured", nil))
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		h.respondError(c, domain.InvalidParameter("invalid parameter error: image file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		h.respondError(c, domain.Internal("open upload", err))
		return
	}
	defer file.Close()

	var body io.Reader = file
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		buffered := bufio.NewReader(file)
		sniff, _ := buffered.Peek(512)
		contentType = http.DetectContentType(sniff)
		body = buffered
	}

	user, err := h.media.UploadProfileImage(c.Request.Context(), viewerID(c), header.Filename, contentType, body)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponse{User: view.NewUser(*user, c.GetString(ctxToken))})
}
