package portal

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/pkg/ctxutil"
)

// RequestIDHeader carries the per-call correlation id to the portal.
const RequestIDHeader = "X-Request-Id"

// Stage wraps a RoundTripper with one step of the request pipeline.
type Stage func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Chain combines stages around base. Chain(base, s1, s2) runs s1 first (outermost).
func Chain(base http.RoundTripper, stages ...Stage) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	rt := base
	for i := len(stages) - 1; i >= 0; i-- {
		rt = stages[i](rt)
	}
	return rt
}

// RequestID tags every request with an X-Request-Id, reusing the one stored in
// the request context when present.
func RequestID() Stage {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			ctx, id := ctxutil.EnsureRequestID(req.Context())
			req = req.Clone(ctx)
			req.Header.Set(RequestIDHeader, id)
			return next.RoundTrip(req)
		})
	}
}

// Credentials attaches the stored session credential and records any credential
// the portal hands back. The credential itself is never inspected.
func Credentials(jar *CredentialJar) Stage {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			req = req.Clone(req.Context())
			jar.Attach(req)

			resp, err := next.RoundTrip(req)
			if err != nil {
				return nil, err
			}
			jar.Store(resp)
			return resp, nil
		})
	}
}

// Logging logs every exchange at debug level.
func Logging(log zerolog.Logger) Stage {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)

			event := log.Debug().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("request_id", req.Header.Get(RequestIDHeader)).
				Dur("duration", time.Since(start))
			if err != nil {
				event.Err(err).Msg("portal request failed")
				return nil, err
			}
			event.Int("status", resp.StatusCode).Msg("portal request")
			return resp, nil
		})
	}
}

// AuthSignal reports 401 answers to notify. Requests for which exempt returns
// true (the auth endpoints themselves) are not reported. The response is passed
// through untouched: nothing is retried and no navigation happens here.
func AuthSignal(notify func(), exempt func(*http.Request) bool) Stage {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(req)
			if err == nil && resp.StatusCode == http.StatusUnauthorized && !exempt(req) {
				notify()
			}
			return resp, err
		})
	}
}
