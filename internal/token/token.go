// Package token читает срок действия подписанных токенов наград.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry возвращается, если в токене отсутствует claim exp.
var ErrNoExpiry = errors.New("token has no expiry claim")

var parser = jwt.NewParser()

// Expiry извлекает момент истечения токена без проверки подписи.
// Подпись проверяет бэкенд при обмене; киоску срок действия нужен
// только для локального вытеснения просроченных наград.
func Expiry(raw string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return time.Time{}, err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}

	return exp.Time, nil
}

// Expired сообщает, истёк ли токен к моменту now. Токен, который не
// удалось разобрать или в котором нет exp, считается уже истёкшим.
// Живым токен остаётся, только пока exp строго больше now в секундах Unix.
func Expired(raw string, now time.Time) bool {
	exp, err := Expiry(raw)
	if err != nil {
		return true
	}
	return exp.Unix() <= now.Unix()
}
