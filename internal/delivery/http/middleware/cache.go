package middleware

import (
	"bytes"
	"crypto/sha1"
	"encoding/gob"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const eventCachePrefix = "cache:events:"

type cachedResponse struct {
	Status int
	Header map[string][]string
	Body   []byte
}

func cacheKey(r *http.Request) string {
	if r.Method != http.MethodGet {
		return ""
	}
	sum := sha1.Sum([]byte(r.URL.Path + "|" + r.URL.RawQuery + "|" + r.Header.Get("Authorization")))
	return eventCachePrefix + hex.EncodeToString(sum[:])
}

// ResponseCache serves GET responses for discovery endpoints from Redis.
// The Authorization header is part of the key: annotated results differ per
// viewer, so a hit is only ever returned to the viewer that produced it.
// Only 2xx responses are stored. Cache errors fall through to the handler.
func ResponseCache(rdb *redis.Client, ttl time.Duration, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := cacheKey(r)
		if key == "" {
			next(w, r)
			return
		}

		if b, err := rdb.Get(r.Context(), key).Bytes(); err == nil && len(b) > 0 {
			var hit cachedResponse
			if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&hit); err == nil {
				for k, vals := range hit.Header {
					for _, v := range vals {
						w.Header().Add(k, v)
					}
				}
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(hit.Status)
				_, _ = w.Write(hit.Body)
				return
			}
		}

		buf := &bytes.Buffer{}
		bw := &bufferedWriter{ResponseWriter: w, buf: buf, status: http.StatusOK}
		bw.Header().Set("X-Cache", "MISS")
		next(bw, r)

		if bw.status >= 200 && bw.status < 300 {
			item := cachedResponse{
				Status: bw.status,
				Header: bw.Header().Clone(),
				Body:   buf.Bytes(),
			}
			var o bytes.Buffer
			if err := gob.NewEncoder(&o).Encode(item); err == nil {
				_ = rdb.Set(r.Context(), key, o.Bytes(), ttl).Err()
			}
		}
	}
}

// InvalidateEventCache drops every cached discovery response. Mutating
// handlers wrap with this so toggles and moderation decisions are visible on
// the next read.
func InvalidateEventCache(rdb *redis.Client, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next(w, r)

		ctx := r.Context()
		iter := rdb.Scan(ctx, 0, eventCachePrefix+"*", 100).Iterator()
		keys := make([]string, 0, 16)
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if len(keys) > 0 {
			_ = rdb.Del(ctx, keys...).Err()
		}
	}
}

type bufferedWriter struct {
	http.ResponseWriter
	buf    *bytes.Buffer
	status int
}

func (w *bufferedWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}
