package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/career-compass/internal/domain/account"
	"github.com/khoahotran/career-compass/pkg/auth"
	"github.com/khoahotran/career-compass/pkg/logger"
)

type RouterDeps struct {
	AuthHandler    *AuthHandler
	PlanHandler    *PlanHandler
	AdvisorHandler *AdvisorHandler
	JWTService     *auth.JWTService
	Sessions       account.SessionRepository
	AllowedOrigins []string
	Logger         logger.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(deps.Logger))
	router.Use(CORSMiddleware(deps.AllowedOrigins))
	router.Use(ErrorMiddleware(deps.Logger))

	authMW := AuthMiddleware(deps.JWTService, deps.Sessions, deps.Logger)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
		api.POST("/render", Render)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", deps.AuthHandler.Signup)
			authGroup.POST("/login", deps.AuthHandler.Login)
			authGroup.GET("/me", authMW, deps.AuthHandler.Me)
			authGroup.POST("/logout", authMW, deps.AuthHandler.Logout)
		}

		plans := api.Group("/plans")
		{
			plans.GET("", deps.PlanHandler.ListPublicPlans)
			plans.GET("/:id", deps.PlanHandler.GetPlan)
			plans.GET("/:id/rendered", deps.PlanHandler.GetRenderedPlan)
		}

		me := api.Group("/me", authMW)
		{
			me.GET("/plans", deps.PlanHandler.ListMyPlans)
			me.POST("/plans", deps.PlanHandler.CreatePlan)
			me.PATCH("/plans/:id", deps.PlanHandler.UpdatePlan)
			me.DELETE("/plans/:id", deps.PlanHandler.DeletePlan)
			me.POST("/plans/:id/suggestions", deps.PlanHandler.GenerateSuggestions)
		}

		advisorGroup := api.Group("/advisor", authMW)
		{
			advisorGroup.POST("/career-paths", deps.AdvisorHandler.CareerPaths)
			advisorGroup.POST("/courses", deps.AdvisorHandler.Courses)
		}
	}

	return router
}
