package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/ajo-backend/internal/audit"
	"github.com/BruksfildServices01/ajo-backend/internal/dto"
	"github.com/BruksfildServices01/ajo-backend/internal/httpresp"
	ucUser "github.com/BruksfildServices01/ajo-backend/internal/usecase/user"
)

const maxAuditLimit = 100

type AuditLogsHandler struct {
	list *ucUser.ListUserAuditLogs
}

func NewAuditLogsHandler(list *ucUser.ListUserAuditLogs) *AuditLogsHandler {
	return &AuditLogsHandler{list: list}
}

// List answers the latest audit records of one user, newest first. The
// user does not need to exist any more.
func (h *AuditLogsHandler) List(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(audit.DefaultQueryLimit)))
	if limit <= 0 {
		limit = audit.DefaultQueryLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	logs, err := h.list.Execute(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.List(c, dto.AuditLogs(logs))
}
