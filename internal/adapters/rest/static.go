package rest

import (
	"net/http"

	"github.com/collo670/NAPANGA-APP/web"
)

// StaticHandler отдает встроенную статическую оболочку приложения.
// Файл index.html отдается для корня автоматически.
func StaticHandler() http.Handler {
	return http.FileServerFS(web.Assets)
}
