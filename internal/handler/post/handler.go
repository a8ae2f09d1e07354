package post

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/dali-api/internal/model/post"
	postService "github.com/zhouzirui/dali-api/internal/service/post"
	"github.com/zhouzirui/dali-api/pkg/utils"
)

// Store 帖子处理器依赖的存储接口，由 postService.Service 实现
type Store interface {
	List(ctx context.Context) []post.Post
	Create(ctx context.Context, content, daliUID string) (post.Post, error)
	Delete(ctx context.Context, id int) (post.Post, error)
	AddReaction(ctx context.Context, postID int, reactionType, daliUID string) (post.Post, error)
	Reactions(ctx context.Context, postID int) ([]post.Reaction, error)
}

// Handler 帖子服务的HTTP处理器
type Handler struct {
	posts Store
}

// New 创建帖子处理器
func New(posts Store) *Handler {
	return &Handler{posts: posts}
}

// RegisterRoutes 注册帖子及其 reaction 子资源的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/posts", h.handleList)
	r.Post("/posts", h.handleCreate)
	r.Delete("/posts/{id}", h.handleDelete)
	r.Get("/posts/{id}/reactions", h.handleListReactions)
	r.Post("/posts/{id}/reactions", h.handleAddReaction)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.posts.List(r.Context()))
}

// handleCreate 以 daliUID 对应的成员身份发帖
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Content string `json:"content"`
		DaliUID string `json:"daliUID"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.posts.Create(r.Context(), payload.Content, payload.DaliUID)
	if err != nil {
		respondServiceError(w, "", payload.DaliUID, err)
		return
	}

	log.Printf("[post] created id=%d author=%d", created.ID, created.Author.ID)
	utils.RespondJSON(w, http.StatusCreated, created)
}

// handleDelete 删除帖子，返回包含被删除帖子的数组
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	rawID, id, ok := postID(r)
	if !ok {
		respondPostNotFound(w, rawID)
		return
	}

	removed, err := h.posts.Delete(r.Context(), id)
	if err != nil {
		respondServiceError(w, rawID, "", err)
		return
	}

	log.Printf("[post] deleted id=%d", removed.ID)
	utils.RespondJSON(w, http.StatusOK, []post.Post{removed})
}

func (h *Handler) handleListReactions(w http.ResponseWriter, r *http.Request) {
	rawID, id, ok := postID(r)
	if !ok {
		respondPostNotFound(w, rawID)
		return
	}

	reactions, err := h.posts.Reactions(r.Context(), id)
	if err != nil {
		respondServiceError(w, rawID, "", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, reactions)
}

// handleAddReaction 为帖子追加一条 reaction，返回更新后的帖子
func (h *Handler) handleAddReaction(w http.ResponseWriter, r *http.Request) {
	rawID, id, ok := postID(r)
	if !ok {
		respondPostNotFound(w, rawID)
		return
	}

	var payload struct {
		Type    string `json:"type"`
		DaliUID string `json:"daliUID"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.posts.AddReaction(r.Context(), id, payload.Type, payload.DaliUID)
	if err != nil {
		respondServiceError(w, rawID, payload.DaliUID, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, updated)
}

func postID(r *http.Request) (string, int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	return raw, id, err == nil
}

func respondPostNotFound(w http.ResponseWriter, rawID string) {
	utils.RespondError(w, http.StatusNotFound, fmt.Sprintf("Post with ID %s not found", rawID))
}

func respondServiceError(w http.ResponseWriter, rawID, daliUID string, err error) {
	switch {
	case errors.Is(err, postService.ErrPostNotFound):
		respondPostNotFound(w, rawID)
	case errors.Is(err, postService.ErrMemberNotFound):
		utils.RespondError(w, http.StatusNotFound, fmt.Sprintf("Member with daliUID %s not found", daliUID))
	case errors.Is(err, postService.ErrContentRequired):
		utils.RespondError(w, http.StatusBadRequest, "Content and daliUID are required fields")
	case errors.Is(err, postService.ErrReactionRequired):
		utils.RespondError(w, http.StatusBadRequest, "Type and daliUID are required fields")
	default:
		log.Printf("[post] unexpected error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
