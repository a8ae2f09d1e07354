package member

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/dali-api/internal/model/member"
	memberService "github.com/zhouzirui/dali-api/internal/service/member"
	"github.com/zhouzirui/dali-api/pkg/utils"
)

// Store 成员处理器依赖的存储接口，由 memberService.Service 实现
type Store interface {
	List(ctx context.Context) []member.Member
	Get(ctx context.Context, id int) (member.Member, error)
	Create(ctx context.Context, draft member.Member) (member.Member, error)
	Update(ctx context.Context, id int, patch map[string]json.RawMessage) (member.Member, error)
	Delete(ctx context.Context, id int) (member.Member, error)
	Filter(ctx context.Context, f member.Filter) []member.Member
}

// Handler 成员服务的HTTP处理器
type Handler struct {
	members Store
}

// New 创建成员处理器
func New(members Store) *Handler {
	return &Handler{members: members}
}

// RegisterRoutes 注册成员相关的路由；/members/filter 是静态路由，优先于 /members/{id}。
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/members", h.handleList)
	r.Post("/members", h.handleCreate)
	r.Get("/members/filter", h.handleFilter)
	r.Get("/members/{id}", h.handleGet)
	r.Put("/members/{id}", h.handleUpdate)
	r.Delete("/members/{id}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.members.List(r.Context()))
}

// handleFilter 按专业（忽略大小写）和 dev 标记过滤成员
func (h *Handler) handleFilter(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := member.Filter{
		Major: query.Get("major"),
		Dev:   query.Get("dev"),
	}
	utils.RespondJSON(w, http.StatusOK, h.members.Filter(r.Context(), filter))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	rawID, id, ok := memberID(r)
	if !ok {
		respondNotFound(w, rawID)
		return
	}

	found, err := h.members.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, rawID, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, found)
}

// handleCreate 新增成员，name 与 year 为必填
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var draft member.Member
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.members.Create(r.Context(), draft)
	if err != nil {
		respondServiceError(w, "", err)
		return
	}

	log.Printf("[member] created id=%d daliUID=%s", created.ID, created.DaliUID)
	utils.RespondJSON(w, http.StatusCreated, created)
}

// handleUpdate 以浅合并方式更新成员
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	rawID, id, ok := memberID(r)
	if !ok {
		respondNotFound(w, rawID)
		return
	}

	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.members.Update(r.Context(), id, patch)
	if err != nil {
		respondServiceError(w, rawID, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, updated)
}

// handleDelete 删除成员，返回包含被删除成员的数组
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	rawID, id, ok := memberID(r)
	if !ok {
		respondNotFound(w, rawID)
		return
	}

	removed, err := h.members.Delete(r.Context(), id)
	if err != nil {
		respondServiceError(w, rawID, err)
		return
	}

	log.Printf("[member] deleted id=%d", removed.ID)
	utils.RespondJSON(w, http.StatusOK, []member.Member{removed})
}

func memberID(r *http.Request) (string, int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	return raw, id, err == nil
}

func respondNotFound(w http.ResponseWriter, rawID string) {
	utils.RespondError(w, http.StatusNotFound, fmt.Sprintf("Member with ID %s not found", rawID))
}

func respondServiceError(w http.ResponseWriter, rawID string, err error) {
	switch {
	case errors.Is(err, memberService.ErrMemberNotFound):
		respondNotFound(w, rawID)
	case errors.Is(err, memberService.ErrNameYearRequired):
		utils.RespondError(w, http.StatusBadRequest, "Name and year are required fields")
	case errors.Is(err, memberService.ErrInvalidPatch):
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
	default:
		log.Printf("[member] unexpected error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
