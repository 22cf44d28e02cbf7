package constants

import "time"

// CacheTTL - срок жизни записи в kv-кэше. Запись старше считается
// отсутствующей, но физически не удаляется (ленивое протухание).
const CacheTTL = 24 * time.Hour

// Версионированные имена кэш-партиций офлайн-прокси. Смена версии
// инвалидирует старые партиции при следующей активации.
const (
	StaticCacheName  = "napanga-static-v4"
	ImagesCacheName  = "napanga-images-v4"
	DynamicCacheName = "napanga-dynamic-v4"
)

// StaticAssets - фиксированный манифест статики, который прогревается
// в статическую партицию до активации прокси.
var StaticAssets = []string{
	"/",
	"/index.html",
	"/offline.html",
	"/manifest.json",
	"/assets/placeholder-property.svg",
}
