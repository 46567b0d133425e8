package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/medialib-admin/internal/domain"
	"github.com/yungbote/medialib-admin/internal/http/response"
	"github.com/yungbote/medialib-admin/internal/modules/dedupe/catalog"
	"github.com/yungbote/medialib-admin/internal/platform/logger"
	"github.com/yungbote/medialib-admin/internal/services"
)

type DedupeHandler struct {
	log    *logger.Logger
	dedupe services.DedupeService
}

func NewDedupeHandler(log *logger.Logger, dedupe services.DedupeService) *DedupeHandler {
	return &DedupeHandler{log: log.With("handler", "DedupeHandler"), dedupe: dedupe}
}

type decideRequest struct {
	Section     string `json:"section"`
	Signature   string `json:"signature"`
	KeepIndex   *int   `json:"keep_index"`
	DeleteIndex *int   `json:"delete_index"`
}

type declineRequest struct {
	Section   string `json:"section"`
	Signature string `json:"signature"`
}

type mergeRequest struct {
	Keep   string `json:"keep"`
	Delete string `json:"delete"`
}

type reclassifyRequest struct {
	Entity string `json:"entity"`
	To     string `json:"to"`
}

// GET /api/admin/duplicates
func (h *DedupeHandler) Scan(c *gin.Context) {
	opts := services.ScanOptions{DryRun: queryBool(c, "dry_run")}
	res, err := h.dedupe.Scan(c.Request.Context(), opts)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/admin/duplicates/pending
func (h *DedupeHandler) Pending(c *gin.Context) {
	groups := h.dedupe.Pending()
	if groups == nil {
		groups = []domain.DuplicateGroup{}
	}
	response.RespondOK(c, gin.H{"groups": groups})
}

// POST /api/admin/duplicates/decide
func (h *DedupeHandler) Decide(c *gin.Context) {
	var req decideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.KeepIndex == nil || req.DeleteIndex == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("keep_index and delete_index are required"))
		return
	}
	section, group, ok := h.pendingGroup(c, req.Section, req.Signature)
	if !ok {
		return
	}
	res, err := h.dedupe.Decide(c.Request.Context(), section, group, *req.KeepIndex, *req.DeleteIndex)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/admin/duplicates/decline
func (h *DedupeHandler) Decline(c *gin.Context) {
	var req declineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	section, group, ok := h.pendingGroup(c, req.Section, req.Signature)
	if !ok {
		return
	}
	entry, err := h.dedupe.Decline(c.Request.Context(), section, group)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"history": entry})
}

func (h *DedupeHandler) pendingGroup(c *gin.Context, rawSection, signature string) (domain.MatchKind, domain.DuplicateGroup, bool) {
	section, err := domain.ParseMatchKind(rawSection)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_section", err)
		return "", domain.DuplicateGroup{}, false
	}
	group, ok := h.dedupe.PendingGroup(strings.TrimSpace(signature))
	if !ok {
		response.RespondError(c, http.StatusNotFound, "group_not_found", errors.New("no pending group with that signature; rescan"))
		return "", domain.DuplicateGroup{}, false
	}
	return section, group, true
}

// POST /api/admin/merge
func (h *DedupeHandler) Merge(c *gin.Context) {
	var req mergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	keep, err := domain.ParseEntityRef(req.Keep)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_keep", err)
		return
	}
	del, err := domain.ParseEntityRef(req.Delete)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_delete", err)
		return
	}
	res, err := h.dedupe.ManualMerge(c.Request.Context(), keep, del)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/admin/reclassify
func (h *DedupeHandler) Reclassify(c *gin.Context) {
	var req reclassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	src, err := domain.ParseEntityRef(req.Entity)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_entity", err)
		return
	}
	to, err := domain.ParseCategory(req.To)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_category", err)
		return
	}
	res, err := h.dedupe.Reclassify(c.Request.Context(), src, to)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/admin/merge-history
func (h *DedupeHandler) History(c *gin.Context) {
	entries, err := h.dedupe.History(c.Request.Context())
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	if entries == nil {
		entries = []*domain.HistoryEntry{}
	}
	response.RespondOK(c, gin.H{"history": entries})
}

// DELETE /api/admin/merge-history
// With ?signature= only that entry is forgotten; otherwise the ledger is cleared.
func (h *DedupeHandler) ClearHistory(c *gin.Context) {
	if sig := strings.TrimSpace(c.Query("signature")); sig != "" {
		if err := h.dedupe.ForgetHistory(c.Request.Context(), sig); err != nil {
			response.RespondFromError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"forgotten": sig})
		return
	}
	if err := h.dedupe.ClearHistory(c.Request.Context()); err != nil {
		response.RespondFromError(c, err)
		return
	}
	h.log.Info("merge history cleared over http")
	response.RespondOK(c, gin.H{"cleared": true})
}

// GET /api/admin/entities/search
func (h *DedupeHandler) Search(c *gin.Context) {
	q := catalog.SearchQuery{Text: c.Query("q")}
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		cat, err := domain.ParseCategory(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_category", err)
			return
		}
		q.Category = cat
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", errors.New("limit must be a non-negative integer"))
			return
		}
		q.Limit = n
	}
	results, err := h.dedupe.Search(c.Request.Context(), q)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	if results == nil {
		results = []domain.CatalogEntity{}
	}
	response.RespondOK(c, gin.H{"results": results})
}

func queryBool(c *gin.Context, name string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(name))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
