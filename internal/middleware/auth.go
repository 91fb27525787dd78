// Package middleware содержит HTTP middleware киоск-агента.
package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/mmeshcher/washpoint-kiosk/internal/capability"
)

type contextKey string

const roleKey contextKey = "role"

const (
	sessionCookieName = "kiosk_session"
	sessionCookieTTL  = 12 * time.Hour
)

// SessionMiddleware проверяет подписанный cookie сессии киоска и кладёт
// роль в контекст запроса. Запросы без cookie проходят с ролью customer.
type SessionMiddleware struct {
	secretKey []byte
}

// NewSessionMiddleware создаёт middleware сессий с указанным секретным ключом.
func NewSessionMiddleware(secret string) *SessionMiddleware {
	key := []byte(secret)
	if len(key) == 0 {
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err == nil {
			key = randomKey
		} else {
			key = []byte("default-secret-key")
		}
	}

	return &SessionMiddleware{
		secretKey: key,
	}
}

// Middleware извлекает роль из cookie сессии. Отсутствующий или
// невалидный cookie не ошибка: запрос продолжается как customer.
func (m *SessionMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := capability.RoleCustomer

		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			if parsed, ok := m.parseCookie(cookie.Value); ok {
				role = parsed
			}
		}

		ctx := context.WithValue(r.Context(), roleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireCapability отклоняет запрос со статусом 403, если роль из
// контекста не обладает указанным правом.
func RequireCapability(cap capability.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok || !capability.Has(role, cap) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SetSessionCookie устанавливает cookie сессии для указанной роли.
func (m *SessionMiddleware) SetSessionCookie(w http.ResponseWriter, role capability.Role) {
	value := m.signRole(string(role))

	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(sessionCookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	http.SetCookie(w, cookie)
}

func (m *SessionMiddleware) signRole(role string) string {
	mac := hmac.New(sha256.New, m.secretKey)
	mac.Write([]byte(role))
	signature := mac.Sum(nil)
	return role + "." + hex.EncodeToString(signature)
}

func (m *SessionMiddleware) parseCookie(cookieValue string) (capability.Role, bool) {
	parts := strings.Split(cookieValue, ".")
	if len(parts) != 2 {
		return "", false
	}

	role := parts[0]
	signature := parts[1]

	expected := m.signRole(role)
	expectedParts := strings.Split(expected, ".")
	if len(expectedParts) != 2 {
		return "", false
	}

	if !hmac.Equal([]byte(signature), []byte(expectedParts[1])) {
		return "", false
	}

	if !capability.Known(capability.Role(role)) {
		return "", false
	}

	return capability.Role(role), true
}

// GetRoleFromContext извлекает роль пользователя из контекста запроса.
func GetRoleFromContext(ctx context.Context) (capability.Role, bool) {
	role, ok := ctx.Value(roleKey).(capability.Role)
	return role, ok
}
