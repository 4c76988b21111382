package pkg

import (
	"fmt"

	"procurement/internal/app/config"
	"procurement/internal/app/handler"
	"procurement/internal/app/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Application struct {
	Config  *config.Config
	Router  *gin.Engine
	Handler *handler.APIHandler
}

func NewApp(c *config.Config, r *gin.Engine, h *handler.APIHandler) *Application {
	return &Application{
		Config:  c,
		Router:  r,
		Handler: h,
	}
}

// Setup подключает CORS, журнал запросов и регистрирует маршруты
func (a *Application) Setup() {
	a.Router.Use(middleware.RequestID(), middleware.AccessLog())
	// пустой список origins в cors.New приводит к панике
	origins := a.Config.CORSOrigins
	if len(origins) == 0 {
		origins = config.DefaultCORSOrigins
	}

	a.Router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"X-Document-Key", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))

	a.Handler.RegisterAPIRoutes(a.Router)
}

func (a *Application) RunApp() {
	logrus.Info("Server start up")

	a.Setup()

	serverAddress := fmt.Sprintf("%s:%d", a.Config.ServiceHost, a.Config.ServicePort)
	logrus.Infof("Starting server on %s", serverAddress)

	if err := a.Router.Run(serverAddress); err != nil {
		logrus.Fatal(err)
	}

	logrus.Info("Server down")
}
