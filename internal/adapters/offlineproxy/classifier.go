package offlineproxy

import (
	"net/http"
	"path"
	"strings"
)

// requestClass определяет стратегию кэширования для запроса
type requestClass int

const (
	classNavigation requestClass = iota
	classAPI
	classImage
	classStatic
	classOther
)

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
	".svg":  {},
	".ico":  {},
}

var staticExtensions = map[string]struct{}{
	".html":  {},
	".css":   {},
	".js":    {},
	".json":  {},
	".txt":   {},
	".woff":  {},
	".woff2": {},
}

// classifyRequest относит запрос к одному из классов. Порядок
// проверок важен: навигация и API распознаются до расширений.
func classifyRequest(r *http.Request) requestClass {
	if r.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return classNavigation
	}

	if strings.HasPrefix(r.URL.Path, "/api/") {
		return classAPI
	}

	ext := strings.ToLower(path.Ext(r.URL.Path))
	if _, ok := imageExtensions[ext]; ok {
		return classImage
	}
	if strings.HasPrefix(r.Header.Get("Accept"), "image/") {
		return classImage
	}

	if r.URL.Path == "/" {
		return classNavigation
	}
	if _, ok := staticExtensions[ext]; ok {
		return classStatic
	}
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		return classNavigation
	}

	return classOther
}
