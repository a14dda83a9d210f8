package api

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"golang.org/x/time/rate"
)

// client is one remote address's token bucket.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const clientIdle = 3 * time.Minute

func (s *Server) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				s.serverErrorResponse(w, r, fmt.Errorf("%v", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.config.Limiter.Enabled {
			next.ServeHTTP(w, r)
			return
		}
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !s.allow(ip, time.Now()) {
			s.rateLimitExceededResponse(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allow takes a token from ip's bucket and drops buckets idle for longer
// than clientIdle.
func (s *Server) allow(ip string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for addr, c := range s.clients {
		if now.Sub(c.lastSeen) > clientIdle {
			delete(s.clients, addr)
		}
	}
	c, ok := s.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(s.config.Limiter.RPS), s.config.Limiter.Burst)}
		s.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics := httpsnoop.CaptureMetrics(next, w, r)
		s.logf("%s %s %d %dB %s", r.Method, r.URL.RequestURI(), metrics.Code, metrics.Written, metrics.Duration.Round(time.Microsecond))
	})
}
