package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inkwell-cms/inkwell/internal/dto"
	"github.com/inkwell-cms/inkwell/internal/middleware"
	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/service"
	"github.com/inkwell-cms/inkwell/pkg/response"
)

type PostHandler struct {
	service service.PostService
}

func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{service: service}
}

func (h *PostHandler) GetAllPosts(c *gin.Context) {
	posts, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// FindPost looks a post up by id, title or slug, whichever matches first.
// A miss is a null body, not an error.
func (h *PostHandler) FindPost(c *gin.Context) {
	var id *uuid.UUID
	if raw := c.Query("id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid format"})
			return
		}
		id = &parsed
	}

	post, err := h.service.GetByAnyIdentifier(c.Request.Context(), id, c.Query("title"), c.Query("slug"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) GetPostsByStatus(c *gin.Context) {
	page, limit, ok := pageQuery(c)
	if !ok {
		return
	}

	posts, err := h.service.GetByStatus(c.Request.Context(), model.PostStatus(c.Query("status")), page, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) GetPostsByAuthor(c *gin.Context) {
	page, limit, ok := pageQuery(c)
	if !ok {
		return
	}

	var authorID *uuid.UUID
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid format"})
			return
		}
		authorID = &parsed
	}

	posts, err := h.service.GetByAuthor(c.Request.Context(), authorID, page, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) GetPostsByCategory(c *gin.Context) {
	page, limit, ok := pageQuery(c)
	if !ok {
		return
	}

	var categoryID *uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid format"})
			return
		}
		categoryID = &parsed
	}

	posts, err := h.service.GetByCategory(c.Request.Context(), categoryID, c.Query("category_name"), page, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) GetPostsByTag(c *gin.Context) {
	page, limit, ok := pageQuery(c)
	if !ok {
		return
	}

	posts, err := h.service.GetByTag(c.Request.Context(), c.Query("tag"), page, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) SearchPosts(c *gin.Context) {
	page, limit, ok := pageQuery(c)
	if !ok {
		return
	}

	posts, err := h.service.Search(c.Request.Context(), c.Query("search"), page, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) SuggestPosts(c *gin.Context) {
	_, limit, ok := pageQuery(c)
	if !ok {
		return
	}

	suggestions, err := h.service.Suggest(c.Request.Context(), c.Query("search"), limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, suggestions)
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	caller, isAuth := middleware.Caller(c)

	var input dto.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.service.Create(c.Request.Context(), caller, isAuth, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	caller, isAuth := middleware.Caller(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid format"})
		return
	}

	var input dto.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.service.Update(c.Request.Context(), caller, isAuth, id, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) SetPostStatus(c *gin.Context) {
	caller, isAuth := middleware.Caller(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid format"})
		return
	}

	var req struct {
		Status model.PostStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.service.SetStatus(c.Request.Context(), caller, isAuth, id, req.Status)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	caller, isAuth := middleware.Caller(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid format"})
		return
	}

	resp, err := h.service.Delete(c.Request.Context(), caller, isAuth, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// pageQuery binds page/limit; a malformed value aborts the request with 400.
func pageQuery(c *gin.Context) (int, int, bool) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page and limit must be integers"})
		return 0, 0, false
	}
	return query.Page, query.Limit, true
}
