// Package notify содержит буфер уведомлений для интерфейса киоска.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level задаёт тип уведомления.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelFailure Level = "failure"
)

// Notification — одно всплывающее сообщение для пользователя киоска.
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Buffer накапливает уведомления до опроса интерфейсом. Уведомления
// временные и не блокируют работу: при переполнении старые вытесняются.
type Buffer struct {
	mu       sync.Mutex
	pending  []Notification
	capacity int
}

// NewBuffer создаёт буфер на capacity уведомлений.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 50
	}
	return &Buffer{capacity: capacity}
}

// Notify добавляет уведомление указанного уровня.
func (b *Buffer) Notify(level Level, message string) {
	n := Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending = append(b.pending, n)
	if len(b.pending) > b.capacity {
		b.pending = b.pending[len(b.pending)-b.capacity:]
	}
}

// Drain возвращает накопленные уведомления и очищает буфер.
func (b *Buffer) Drain() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.pending
	b.pending = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}
