package user

import (
	"context"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/ajo-backend/internal/domain/user"
	"github.com/BruksfildServices01/ajo-backend/internal/models"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

type ListInput struct {
	Search  string
	Role    string
	Status  string
	Date    string // 7days, 30days, 90days
	Sort    string
	Order   string
	Page    int
	PerPage int
}

type ListOutput struct {
	Users   []models.User
	Total   int64
	Page    int
	PerPage int
}

func (o *ListOutput) LastPage() int {
	if o.Total == 0 {
		return 1
	}
	return int((o.Total + int64(o.PerPage) - 1) / int64(o.PerPage))
}

type ListUsers struct {
	repo domain.Repository
	now  func() time.Time
}

func NewListUsers(repo domain.Repository) *ListUsers {
	return &ListUsers{repo: repo, now: time.Now}
}

func (uc *ListUsers) Execute(ctx context.Context, in ListInput) (*ListOutput, error) {
	page := in.Page
	if page <= 0 {
		page = 1
	}
	perPage := in.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	f := domain.ListFilter{
		Search:   strings.TrimSpace(in.Search),
		RoleName: strings.ToLower(strings.TrimSpace(in.Role)),
		Status:   strings.TrimSpace(in.Status),
		Sort:     in.Sort,
		Desc:     !strings.EqualFold(in.Order, "asc"),
		Page:     page,
		PerPage:  perPage,
	}
	if f.Sort == "" {
		f.Sort = "created_at"
	}

	switch in.Date {
	case "7days":
		f.Since = uc.now().AddDate(0, 0, -7)
	case "30days":
		f.Since = uc.now().AddDate(0, 0, -30)
	case "90days":
		f.Since = uc.now().AddDate(0, 0, -90)
	}

	users, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	return &ListOutput{
		Users:   users,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

type GetUser struct {
	repo domain.Repository
}

func NewGetUser(repo domain.Repository) *GetUser {
	return &GetUser{repo: repo}
}

func (uc *GetUser) Execute(ctx context.Context, id uint) (*models.User, error) {
	return uc.repo.GetByID(ctx, id)
}
