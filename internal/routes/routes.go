package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/ajo-backend/internal/audit"
	"github.com/BruksfildServices01/ajo-backend/internal/auth"
	"github.com/BruksfildServices01/ajo-backend/internal/config"
	"github.com/BruksfildServices01/ajo-backend/internal/domain/access"
	domainUser "github.com/BruksfildServices01/ajo-backend/internal/domain/user"
	"github.com/BruksfildServices01/ajo-backend/internal/handlers"
	infraRepo "github.com/BruksfildServices01/ajo-backend/internal/infra/repository"
	"github.com/BruksfildServices01/ajo-backend/internal/middleware"
	"github.com/BruksfildServices01/ajo-backend/internal/session"
	ucUser "github.com/BruksfildServices01/ajo-backend/internal/usecase/user"
	"github.com/BruksfildServices01/ajo-backend/internal/validators"
)

// Deps are the process singletons the routes are built from.
type Deps struct {
	DB       *gorm.DB
	Users    domainUser.Repository
	Roles    access.RoleMap
	Tokens   *auth.Tokens
	Sessions session.Store
	Config   *config.Config
	Log      zerolog.Logger
}

// NewDeps wires the gorm repositories for db.
func NewDeps(
	db *gorm.DB,
	cfg *config.Config,
	roles access.RoleMap,
	sessions session.Store,
	log zerolog.Logger,
) Deps {
	return Deps{
		DB:       db,
		Users:    infraRepo.NewUserGormRepository(db),
		Roles:    roles,
		Tokens:   auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		Sessions: sessions,
		Config:   cfg,
		Log:      log,
	}
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORSMiddleware(d.Config.AllowedOrigins()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// USE CASES
	// ======================================================
	recorder := audit.New(d.Users.AuditLogs(), d.Log)

	createUserUC := ucUser.NewCreateUser(d.Users, recorder)
	updateUserUC := ucUser.NewUpdateUser(d.Users, recorder, d.Sessions, d.Log)
	if d.Config.CheckEmailDomain {
		domains := validators.NewEmailDomainChecker(validators.DefaultLookupTimeout)
		createUserUC.EmailDomainCheck = domains.Valid
		updateUserUC.EmailDomainCheck = domains.Valid
	}

	deleteUserUC := ucUser.NewDeleteUser(d.Users, recorder, d.Sessions, d.Config.ProtectedRoleID, d.Log)
	statusUserUC := ucUser.NewChangeUserStatus(d.Users, recorder, d.Sessions, d.Log)
	listUsersUC := ucUser.NewListUsers(d.Users)
	getUserUC := ucUser.NewGetUser(d.Users)
	auditLogsUC := ucUser.NewListUserAuditLogs(d.Users, recorder)

	loginUC := ucUser.NewLogin(d.Users, d.Tokens, d.Sessions)
	logoutUC := ucUser.NewLogout(d.Sessions)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(loginUC, logoutUC, getUserUC)
	userHandler := handlers.NewUserHandler(
		listUsersUC,
		getUserUC,
		createUserUC,
		updateUserUC,
		deleteUserUC,
		statusUserUC,
	)
	auditLogsHandler := handlers.NewAuditLogsHandler(auditLogsUC)
	menuHandler := handlers.NewMenuHandler(d.DB)
	categoryHandler := handlers.NewCategoryHandler(d.DB)

	requireAuth := middleware.AuthMiddleware(d.Tokens, d.Sessions, d.Users)
	adminOnly := middleware.RoleAccess(d.Roles, access.RoleAdmin)
	catalogStaff := middleware.RoleAccess(d.Roles, access.RoleAdmin, access.RoleManager)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/menus", menuHandler.List)
		api.GET("/menus/:id", menuHandler.Show)

		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(requireAuth)
		{
			secured.POST("/auth/logout", authHandler.Logout)
			secured.GET("/auth/me", authHandler.Me)

			// ------------------------------
			// USERS (admin)
			// ------------------------------
			users := secured.Group("/users")
			users.Use(adminOnly)
			{
				users.GET("", userHandler.List)
				users.POST("", userHandler.Create)
				users.GET("/:id", userHandler.Show)
				users.PUT("/:id", userHandler.Update)
				users.DELETE("/:id", userHandler.Delete)
				users.PATCH("/:id/status", userHandler.UpdateStatus)
				users.GET("/:id/audit-logs", auditLogsHandler.List)
			}

			// ------------------------------
			// CATALOG (admin, manager)
			// ------------------------------
			menus := secured.Group("/menus")
			menus.Use(catalogStaff)
			{
				menus.POST("", menuHandler.Create)
				menus.PUT("/:id", menuHandler.Update)
				menus.PATCH("/:id/status", menuHandler.UpdateStatus)
				menus.DELETE("/:id", menuHandler.Delete)
			}

			categories := secured.Group("/categories")
			categories.Use(catalogStaff)
			{
				categories.GET("", categoryHandler.List)
				categories.POST("", categoryHandler.Create)
				categories.GET("/:id", categoryHandler.Show)
				categories.PUT("/:id", categoryHandler.Update)
				categories.DELETE("/:id", categoryHandler.Delete)
			}
		}
	}
}
