package http

import (
	"net/http"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/domain/model/auth"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
	"github.com/mateh-lab/taskcast/pkg/utils/logging"
	"golang.org/x/time/rate"
)

type senderLimiters struct {
	mu       sync.Mutex
	limiters map[types.UserID]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func (sl *senderLimiters) get(id types.UserID) *rate.Limiter {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	l, ok := sl.limiters[id]
	if !ok {
		l = rate.NewLimiter(sl.rate, sl.burst)
		sl.limiters[id] = l
	}
	return l
}

// dispatchLimiter throttles task dispatches per authenticated sender.
// A zero rate disables the limit entirely.
func dispatchLimiter(perSecond float64, burst int) func(http.Handler) http.Handler {
	if perSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}

	sl := &senderLimiters{
		limiters: map[types.UserID]*rate.Limiter{},
		rate:     rate.Limit(perSecond),
		burst:    burst,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			member, ok := auth.MemberFromContext(r.Context())
			if !ok {
				handleError(r.Context(), w, goerr.New("no authenticated member in context"))
				return
			}

			if !sl.get(member.ID).Allow() {
				logging.From(r.Context()).Warn("dispatch rate limit exceeded",
					"member_id", member.ID)
				writeJSON(r.Context(), w, http.StatusTooManyRequests,
					errorResponse{Error: "dispatch rate limit exceeded"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
