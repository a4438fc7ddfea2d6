package internal

import (
	"net/http"

	"f2g/internal/controllers"
	"f2g/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/{$}", http.HandlerFunc(apiController.Root))
	routers.Get("/usage/{fingerprint}", http.HandlerFunc(apiController.Usage))
	routers.Post("/upload", http.HandlerFunc(apiController.Upload))
	routers.Post("/validate", http.HandlerFunc(apiController.Validate))
	routers.Post("/convert", http.HandlerFunc(apiController.Convert))
	routers.Get("/download/{conversion}/{filename}", http.HandlerFunc(apiController.Download))
	return routers
}
