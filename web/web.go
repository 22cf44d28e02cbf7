// Package web содержит статическую оболочку приложения,
// встраиваемую в бинарник.
package web

import "embed"

//go:embed index.html offline.html manifest.json assets
var Assets embed.FS
