package offlineproxy

import (
	"context"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/collo670/NAPANGA-APP/internal/constants"
	core_port "github.com/collo670/NAPANGA-APP/internal/core/port"
	"github.com/collo670/NAPANGA-APP/web"
)

// Proxy - кэширующий обратный прокси между клиентом и приложением.
// GET-запросы перехватываются и обслуживаются по стратегии,
// зависящей от класса запроса; остальные проходят насквозь.
type Proxy struct {
	upstream      *url.URL
	partitions    *PartitionStore
	passthrough   *httputil.ReverseProxy
	client        *http.Client
	enableCaching bool
	logger        core_port.LoggerPort
}

func NewProxy(upstream *url.URL, partitions *PartitionStore, enableCaching bool, logger core_port.LoggerPort) *Proxy {
	passthrough := httputil.NewSingleHostReverseProxy(upstream)
	originalDirector := passthrough.Director
	passthrough.Director = func(req *http.Request) {
		originalDirector(req)
		req.Host = upstream.Host
	}

	return &Proxy{
		upstream:      upstream,
		partitions:    partitions,
		passthrough:   passthrough,
		client:        &http.Client{Timeout: 30 * time.Second},
		enableCaching: enableCaching,
		logger:        logger,
	}
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Перехватываются только GET-запросы
	if r.Method != http.MethodGet {
		p.passthrough.ServeHTTP(w, r)
		return
	}

	// Режим разработки: всегда сеть, кэш только как запасной вариант,
	// новые ответы не сохраняются.
	if !p.enableCaching {
		p.serveNetworkOnly(w, r)
		return
	}

	switch classifyRequest(r) {
	case classNavigation:
		p.serveNavigation(w, r)
	case classAPI:
		p.serveNetworkFirst(w, r, constants.DynamicCacheName)
	case classImage:
		p.serveCacheFirst(w, r, constants.ImagesCacheName, p.writeImageFallback)
	case classStatic:
		p.serveCacheFirst(w, r, constants.StaticCacheName, p.writeOfflinePage)
	default:
		p.serveNetworkFirst(w, r, constants.DynamicCacheName)
	}
}

// serveNavigation всегда идет в сеть; при отказе отдает офлайн-страницу.
func (p *Proxy) serveNavigation(w http.ResponseWriter, r *http.Request) {
	resp, err := p.fetch(r)
	if err == nil {
		defer resp.Body.Close()
		writeUpstreamResponse(w, resp)
		return
	}

	p.logger.Warn("Navigation request failed, serving offline page", core_port.Fields{
		"path":  r.URL.Path,
		"error": err.Error(),
	})

	if cached, _ := p.partitions.Match(constants.StaticCacheName, "/offline.html"); cached != nil {
		writeCachedResponse(w, cached)
		return
	}
	p.writeOfflinePage(w, r)
}

// serveNetworkOnly идет в сеть, ничего не записывая в кэш.
// При отказе сети перебирает все партиции; для навигации
// последним шансом служит оболочка приложения.
func (p *Proxy) serveNetworkOnly(w http.ResponseWriter, r *http.Request) {
	resp, err := p.fetch(r)
	if err == nil {
		defer resp.Body.Close()
		writeUpstreamResponse(w, resp)
		return
	}

	key := r.URL.RequestURI()
	for _, partition := range []string{constants.StaticCacheName, constants.ImagesCacheName, constants.DynamicCacheName} {
		if cached, _ := p.partitions.Match(partition, key); cached != nil {
			writeCachedResponse(w, cached)
			return
		}
	}

	if classifyRequest(r) == classNavigation {
		p.writeOfflinePage(w, r)
		return
	}
	http.Error(w, "Offline", http.StatusServiceUnavailable)
}

// serveNetworkFirst сначала идет в сеть и кэширует успешный ответ;
// при отказе сети отдает последний закэшированный.
func (p *Proxy) serveNetworkFirst(w http.ResponseWriter, r *http.Request, partition string) {
	key := r.URL.RequestURI()

	resp, err := p.fetch(r)
	if err == nil {
		defer resp.Body.Close()
		p.writeAndCache(w, resp, partition, key)
		return
	}

	cached, cacheErr := p.partitions.Match(partition, key)
	if cacheErr == nil && cached != nil {
		p.logger.Debug("Serving stale response from cache", core_port.Fields{"path": r.URL.Path})
		writeCachedResponse(w, cached)
		return
	}

	p.logger.Warn("Upstream unavailable and nothing cached", core_port.Fields{
		"path":  r.URL.Path,
		"error": err.Error(),
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	w.Write([]byte(`{"error":"Service unavailable and no cached data"}`))
}

// serveCacheFirst отдает из кэша и только при промахе идет в сеть.
func (p *Proxy) serveCacheFirst(w http.ResponseWriter, r *http.Request, partition string, fallback func(http.ResponseWriter, *http.Request)) {
	key := r.URL.RequestURI()

	cached, err := p.partitions.Match(partition, key)
	if err == nil && cached != nil {
		writeCachedResponse(w, cached)
		return
	}

	resp, err := p.fetch(r)
	if err == nil {
		defer resp.Body.Close()
		p.writeAndCache(w, resp, partition, key)
		return
	}

	p.logger.Warn("Cache miss and upstream unavailable", core_port.Fields{
		"path":  r.URL.Path,
		"error": err.Error(),
	})
	fallback(w, r)
}

// fetch выполняет запрос к источнику от имени клиента.
func (p *Proxy) fetch(r *http.Request) (*http.Response, error) {
	target := *r.URL
	target.Scheme = p.upstream.Scheme
	target.Host = p.upstream.Host

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	for _, header := range []string{"Accept", "Accept-Language", "Authorization", "Cookie", "X-Trace-ID"} {
		if v := r.Header.Get(header); v != "" {
			req.Header.Set(header, v)
		}
	}
	return p.client.Do(req)
}

// writeAndCache отдает ответ клиенту и кладет успешный в партицию.
func (p *Proxy) writeAndCache(w http.ResponseWriter, resp *http.Response, partition, key string) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		entry := &cachedResponse{
			Status:   resp.StatusCode,
			Header:   resp.Header.Clone(),
			Body:     body,
			StoredAt: time.Now().UTC(),
		}
		if err := p.partitions.Put(partition, key, entry); err != nil {
			// Отказ кэша не должен ломать ответ клиенту
			p.logger.Warn("Failed to cache upstream response", core_port.Fields{
				"partition": partition,
				"key":       key,
				"error":     err.Error(),
			})
		}
	}

	copyHeader(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	w.Write(body)
}

func (p *Proxy) writeOfflinePage(w http.ResponseWriter, _ *http.Request) {
	page, err := web.Assets.ReadFile("offline.html")
	if err != nil {
		http.Error(w, "offline", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusServiceUnavailable)
	w.Write(page)
}

func (p *Proxy) writeImageFallback(w http.ResponseWriter, _ *http.Request) {
	img, err := web.Assets.ReadFile("assets/placeholder-property.svg")
	if err != nil {
		http.Error(w, "image unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}

// Install заранее прогревает статическую партицию оболочкой
// приложения. Отказ по отдельному ресурсу не прерывает установку.
func (p *Proxy) Install(ctx context.Context) {
	for _, asset := range constants.StaticAssets {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.upstream.ResolveReference(&url.URL{Path: asset}).String(), nil)
		if err != nil {
			continue
		}
		resp, err := p.client.Do(req)
		if err != nil {
			p.logger.Warn("Failed to prefetch static asset", core_port.Fields{"asset": asset, "error": err.Error()})
			continue
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
			p.logger.Warn("Skipping static asset with bad response", core_port.Fields{"asset": asset, "status": resp.StatusCode})
			continue
		}
		entry := &cachedResponse{
			Status:   resp.StatusCode,
			Header:   resp.Header.Clone(),
			Body:     body,
			StoredAt: time.Now().UTC(),
		}
		if err := p.partitions.Put(constants.StaticCacheName, asset, entry); err != nil {
			p.logger.Warn("Failed to store prefetched asset", core_port.Fields{"asset": asset, "error": err.Error()})
		}
	}
	p.logger.Info("Static assets prefetched", core_port.Fields{"count": len(constants.StaticAssets)})
}

// Activate удаляет партиции предыдущих версий.
func (p *Proxy) Activate() error {
	return p.partitions.DeleteOthers([]string{
		constants.StaticCacheName,
		constants.ImagesCacheName,
		constants.DynamicCacheName,
	})
}

// ClearCache полностью очищает все партиции.
func (p *Proxy) ClearCache() error {
	return p.partitions.ClearAll()
}

func writeUpstreamResponse(w http.ResponseWriter, resp *http.Response) {
	copyHeader(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)
}

func writeCachedResponse(w http.ResponseWriter, cached *cachedResponse) {
	copyHeader(w.Header(), cached.Header)
	w.Header().Set("X-Served-From-Cache", "true")
	w.WriteHeader(cached.Status)
	w.Write(cached.Body)
}

func copyHeader(dst, src http.Header) {
	for k, values := range src {
		for _, v := range values {
			dst.Add(k, v)
		}
	}
}
