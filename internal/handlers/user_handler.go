package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainUser "github.com/BruksfildServices01/ajo-backend/internal/domain/user"
	"github.com/BruksfildServices01/ajo-backend/internal/dto"
	"github.com/BruksfildServices01/ajo-backend/internal/httpresp"
	"github.com/BruksfildServices01/ajo-backend/internal/models"
	ucUser "github.com/BruksfildServices01/ajo-backend/internal/usecase/user"
)

type UserHandler struct {
	list   *ucUser.ListUsers
	get    *ucUser.GetUser
	create *ucUser.CreateUser
	update *ucUser.UpdateUser
	delete *ucUser.DeleteUser
	status *ucUser.ChangeUserStatus
}

func NewUserHandler(
	list *ucUser.ListUsers,
	get *ucUser.GetUser,
	create *ucUser.CreateUser,
	update *ucUser.UpdateUser,
	del *ucUser.DeleteUser,
	status *ucUser.ChangeUserStatus,
) *UserHandler {
	return &UserHandler{
		list:   list,
		get:    get,
		create: create,
		update: update,
		delete: del,
		status: status,
	}
}

// --------- Requests ---------

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Username string `json:"username" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6"`
	RoleID   uint   `json:"role_id" binding:"required"`
	Status   string `json:"status" binding:"omitempty,user_status"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Username *string `json:"username,omitempty" binding:"omitempty,min=1,max=255"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email,max=255"`
	RoleID   *uint   `json:"role_id,omitempty" binding:"omitempty,min=1"`
	Status   *string `json:"status,omitempty" binding:"omitempty,user_status"`
}

func (r UpdateUserRequest) patch() domainUser.Patch {
	p := domainUser.Patch{
		Name:     r.Name,
		Username: r.Username,
		Email:    r.Email,
		RoleID:   r.RoleID,
	}
	if r.Status != nil {
		s := models.UserStatus(*r.Status)
		p.Status = &s
	}
	return p
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required,user_status"`
}

// --------- Handlers ---------

func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(ucUser.DefaultPerPage)))

	out, err := h.list.Execute(c.Request.Context(), ucUser.ListInput{
		Search:  c.Query("search"),
		Role:    c.Query("role"),
		Status:  c.Query("status"),
		Date:    c.Query("date"),
		Sort:    c.Query("sort"),
		Order:   c.Query("order"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Page(c, dto.Users(out.Users), out.Total, out.Page, out.PerPage, out.LastPage())
}

func (h *UserHandler) Show(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	u, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, dto.User(u))
}

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	u, err := h.create.Execute(c.Request.Context(), ucUser.CreateInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		RoleID:   req.RoleID,
		Status:   models.UserStatus(req.Status),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Created(c, dto.User(u))
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.update.Execute(c.Request.Context(), id, req.patch())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":           dto.User(res.User),
		"updated_fields": res.Changes,
	})
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.delete.Execute(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted."})
}

func (h *UserHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	u, err := h.status.Execute(c.Request.Context(), id, models.UserStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, dto.User(u))
}
