package api

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lastmile-ai/mcp-registry-search/internal/config"
)

// StreamProxy forwards requests to an upstream streaming endpoint, injecting
// a server-held bearer token so clients never see the upstream credential.
// Response bytes are flushed as they arrive, which keeps SSE streams live.
type StreamProxy struct {
	upstreamURL string
	authToken   string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewStreamProxy creates a StreamProxy from configuration.
func NewStreamProxy(cfg config.StreamProxyConfig, logger *slog.Logger) *StreamProxy {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamProxy{
		upstreamURL: strings.TrimRight(cfg.UpstreamURL(), "/"),
		authToken:   cfg.AuthToken(),
		// No client timeout: streams stay open until either side closes.
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// ServeHTTP implements http.Handler.
func (p *StreamProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target := p.upstreamURL + strings.TrimPrefix(r.URL.Path, "/stream")
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	upstreamReq, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		http.Error(w, "bad gateway", http.StatusBadGateway)
		return
	}

	copyProxyHeaders(upstreamReq.Header, r.Header)
	if p.authToken != "" {
		upstreamReq.Header.Set("Authorization", "Bearer "+p.authToken)
	}

	resp, err := p.httpClient.Do(upstreamReq)
	if err != nil {
		p.logger.Error("stream proxy upstream failed", "target", target, "error", err)
		http.Error(w, "bad gateway", http.StatusBadGateway)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	for key, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(resp.StatusCode)

	flusher, _ := w.(http.Flusher)
	buf := make([]byte, 4096)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if readErr != nil {
			if readErr != io.EOF {
				p.logger.Debug("stream proxy read ended", "error", readErr)
			}
			return
		}
	}
}

// copyProxyHeaders forwards client headers except hop-by-hop ones and the
// client's own Authorization, which is replaced by the server token.
func copyProxyHeaders(dst, src http.Header) {
	for key, values := range src {
		switch http.CanonicalHeaderKey(key) {
		case "Authorization", "Connection", "Keep-Alive", "Proxy-Authorization",
			"Te", "Trailer", "Transfer-Encoding", "Upgrade", "Host":
			continue
		}
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}
