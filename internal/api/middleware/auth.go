package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/CWS-BookingService/internal/api/handlers"
)

const msgMissingUserID = "отсутствует или некорректен заголовок X-User-ID"

// userIDKey ключ контекста для ID пользователя
type contextKey string

const userIDKey contextKey = "userID"

// Auth извлекает ID пользователя из заголовка X-User-ID и кладёт его в контекст
// Аутентификацию выполняет API-шлюз платформы, сервис доверяет заголовку
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-User-ID")

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает ID пользователя из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
