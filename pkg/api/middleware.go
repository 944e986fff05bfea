package api

import (
	"crypto/subtle"
	"encoding/json"
	"github.com/txsociety/tonbridge/pkg/core"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
)

// maxBodySize limits request bodies of every route.
const maxBodySize = 1 << 20

type handlerFunc func(http.ResponseWriter, *http.Request)

type ErrorResponse struct {
	Error string `json:"error"`
}

func recoverMiddleware(next handlerFunc) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("handler panic", "route", r.Pattern, "method", r.Method, "error", err, "trace", string(debug.Stack()))
				writeHttpError(w, http.StatusInternalServerError, core.ErrInternalServerError.Error())
			}
		}()
		next(w, r)
	}
}

// authMiddleware rejects requests without the bridge operator token.
// An empty token rejects everything.
func authMiddleware(next handlerFunc, token string) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !checkToken(r, token) {
			slog.Warn("unauthorized request", "route", r.Pattern, "remote", r.RemoteAddr)
			writeHttpError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

func allowMethod(method string, next handlerFunc) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			writeHttpError(w, http.StatusMethodNotAllowed, "only "+method+" method is supported")
			return
		}
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		}
		next(w, r)
	}
}

func get(next handlerFunc) handlerFunc {
	return allowMethod(http.MethodGet, next)
}

func post(next handlerFunc) handlerFunc {
	return allowMethod(http.MethodPost, next)
}

func checkToken(r *http.Request, token string) bool {
	if token == "" {
		return false
	}
	got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(token)) == 1
}

func writeHttpError(w http.ResponseWriter, status int, comment string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(ErrorResponse{Error: comment})
	if err != nil {
		slog.Error("encode error response", "error", err)
	}
}
