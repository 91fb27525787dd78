// Package handler содержит HTTP-обработчики API киоска.
package handler

import (
	"context"
	"crypto/hmac"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/washpoint-kiosk/internal/capability"
	"github.com/mmeshcher/washpoint-kiosk/internal/middleware"
	"github.com/mmeshcher/washpoint-kiosk/internal/model"
	"github.com/mmeshcher/washpoint-kiosk/internal/notify"
	"github.com/mmeshcher/washpoint-kiosk/internal/rewards"
)

// Service определяет контракт жизненного цикла наград, используемый HTTP-обработчиками.
type Service interface {
	Claim(ctx context.Context, phone string) *model.Profile
	Redeem(ctx context.Context, rewardToken string) error
	Claimed() []model.ClaimedReward
	History() []model.RedemptionRecord
	Profile(ctx context.Context, phone string) (*model.Profile, error)
}

// Notifications определяет контракт буфера уведомлений.
type Notifications interface {
	Drain() []notify.Notification
}

// Handler реализует HTTP-обработчики API киоска.
type Handler struct {
	service       Service
	notifications Notifications
	logger        *zap.Logger
	session       *middleware.SessionMiddleware
	staffSecret   string
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, n Notifications, logger *zap.Logger, session *middleware.SessionMiddleware, staffSecret string) *Handler {
	return &Handler{
		service:       s,
		notifications: n,
		logger:        logger,
		session:       session,
		staffSecret:   staffSecret,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type sessionRequest struct {
	Role   string `json:"role"`
	Secret string `json:"secret"`
}

// OpenSession выдаёт подписанный cookie сессии для роли staff или admin
// при совпадении секрета киоска.
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	role := capability.Role(req.Role)
	if !capability.Known(role) || role == capability.RoleCustomer {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if h.staffSecret == "" || !hmac.Equal([]byte(req.Secret), []byte(h.staffSecret)) {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	h.session.SetSessionCookie(w, role)
	w.WriteHeader(http.StatusOK)
}

type claimRequest struct {
	Phone string `json:"phone"`
}

type claimResponse struct {
	Profile *model.Profile        `json:"profile,omitempty"`
	Rewards []model.ClaimedReward `json:"rewards"`
}

// Claim запускает получение наград и возвращает обновлённый профиль
// вместе с текущей коллекцией.
func (h *Handler) Claim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	profile := h.service.Claim(r.Context(), req.Phone)

	writeJSON(w, http.StatusOK, claimResponse{
		Profile: profile,
		Rewards: h.service.Claimed(),
	})
}

type redeemRequest struct {
	Token string `json:"token"`
}

type redeemFailure struct {
	Detail string `json:"detail"`
}

// Redeem обменивает награду по токену. Отказ бэкенда транслируется
// клиенту с тем же статусом и текстом detail.
func (h *Handler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.Token == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.Redeem(r.Context(), req.Token); err != nil {
		var rejection *rewards.RedeemError
		if errors.As(err, &rejection) {
			writeJSON(w, rejection.Status, redeemFailure{Detail: rejection.Error()})
			return
		}

		h.logger.Error("redeem error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"rewards": h.service.Claimed(),
		"history": h.service.History(),
	})
}

// GetRewards возвращает текущую коллекцию полученных наград.
func (h *Handler) GetRewards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Claimed())
}

// GetHistory возвращает историю обменов.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.History())
}

// GetProfile возвращает профиль клиента по номеру телефона.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Profile(r.Context(), r.URL.Query().Get("phone"))
	if err != nil {
		h.logger.Error("get profile error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// GetNotifications отдаёт накопленные уведомления и очищает буфер.
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.notifications.Drain())
}
