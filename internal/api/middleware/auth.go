package middleware

import (
	"context"
	"net/http"
	"strconv"
)

// Заголовки идентификации, проставляемые API gateway после проверки
// initData Telegram mini-app
const (
	headerUserID     = "X-User-Id"
	headerTelegramID = "X-Telegram-Id"
	headerIsMaster   = "X-Is-Master"
	headerIsAdmin    = "X-Is-Admin"
)

type identityContextKey struct{}

// Identity идентификация вызывающего, извлеченная из заголовков запроса
type Identity struct {
	UserID     string // внутренний ID пользователя (для мастера)
	TelegramID *int64 // Telegram ID клиента
	IsMaster   bool
	IsAdmin    bool
}

// Auth извлекает идентификацию вызывающего из заголовков и кладет в контекст
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := Identity{
			UserID:   r.Header.Get(headerUserID),
			IsMaster: r.Header.Get(headerIsMaster) == "true",
			IsAdmin:  r.Header.Get(headerIsAdmin) == "true",
		}

		if raw := r.Header.Get(headerTelegramID); raw != "" {
			if telegramID, err := strconv.ParseInt(raw, 10, 64); err == nil {
				identity.TelegramID = &telegramID
			}
		}

		ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext возвращает идентификацию вызывающего из контекста
func IdentityFromContext(ctx context.Context) Identity {
	if identity, ok := ctx.Value(identityContextKey{}).(Identity); ok {
		return identity
	}
	return Identity{}
}

// RequireMaster пропускает только запросы мастера
func RequireMaster(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IdentityFromContext(r.Context()).IsMaster {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"операция доступна только мастеру"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
