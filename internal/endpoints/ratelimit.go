package endpoints

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const visitorTTL = time.Hour

type Visitor struct {
	LastSeen time.Time
	Limiter  *rate.Limiter
}

// Visitors holds one token bucket per client address.
type Visitors struct {
	val   map[string]Visitor
	limit rate.Limit
	burst int
	now   func() time.Time
	sync.Mutex
}

func NewVisitors(perSecond float64, burst int) *Visitors {
	return &Visitors{
		val:   make(map[string]Visitor),
		limit: rate.Limit(perSecond),
		burst: burst,
		now:   time.Now,
	}
}

// Fetch retrieves the Visitor for ip, creating it on first sight.
func (vs *Visitors) Fetch(ip string) Visitor {
	vs.Lock()
	defer vs.Unlock()

	v, ok := vs.val[ip]
	if !ok {
		v = Visitor{Limiter: rate.NewLimiter(vs.limit, vs.burst)}
	}

	v.LastSeen = vs.now().UTC()
	vs.val[ip] = v
	return v
}

// cleanup forgets visitors not seen within visitorTTL.
func (vs *Visitors) cleanup() {
	vs.Lock()
	defer vs.Unlock()

	now := vs.now()
	for ip, v := range vs.val {
		if now.Sub(v.LastSeen) > visitorTTL {
			delete(vs.val, ip)
		}
	}
}

func (vs *Visitors) Len() int {
	vs.Lock()
	defer vs.Unlock()
	return len(vs.val)
}

func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// allow reports whether the write may proceed and answers 429 otherwise.
func (h *Handler) allow(w http.ResponseWriter, r *http.Request) bool {
	if h.limiter == nil {
		return true
	}

	if !h.limiter.Fetch(clientAddress(r)).Limiter.Allow() {
		if h.metrics != nil {
			h.metrics.RateLimited.Inc()
		}
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
		return false
	}

	h.limiter.cleanup()
	return true
}
