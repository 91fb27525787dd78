// Package service реализует жизненный цикл наград киоска: получение,
// обмен и вытеснение просроченных токенов.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/washpoint-kiosk/internal/model"
	"github.com/mmeshcher/washpoint-kiosk/internal/notify"
	"github.com/mmeshcher/washpoint-kiosk/internal/rewards"
	"github.com/mmeshcher/washpoint-kiosk/internal/token"
)

// Store описывает контракт долговременного хранилища, используемый сервисом.
// Обе коллекции читаются и перезаписываются только целиком.
type Store interface {
	LoadClaimed() []model.ClaimedReward
	SaveClaimed([]model.ClaimedReward)
	LoadHistory() []model.RedemptionRecord
	SaveHistory([]model.RedemptionRecord)
}

// Backend описывает контракт бэкенда наград, используемый сервисом.
type Backend interface {
	GetProfile(ctx context.Context, phone string) (*model.Profile, error)
	Claim(ctx context.Context, phone string) (*rewards.ClaimResult, error)
	Redeem(ctx context.Context, rewardToken string) (*rewards.RedeemResult, error)
}

// Notifier принимает уведомления для пользователя киоска.
type Notifier interface {
	Notify(level notify.Level, message string)
}

// Service владеет обеими коллекциями наград. Каждая мутация выполняется
// под одним мьютексом как чтение-изменение-замена с записью в хранилище,
// что воспроизводит run-to-completion семантику исходной системы.
type Service struct {
	mu      sync.Mutex
	claimed []model.ClaimedReward
	history []model.RedemptionRecord

	store        Store
	backend      Backend
	notifier     Notifier
	logger       *zap.Logger
	defaultPhone string
}

// NewService создаёт сервис и один раз загружает обе коллекции из хранилища.
// После загрузки хранилище больше не перечитывается: память авторитетна.
func NewService(store Store, backend Backend, notifier Notifier, logger *zap.Logger, defaultPhone string) *Service {
	return &Service{
		claimed:      store.LoadClaimed(),
		history:      store.LoadHistory(),
		store:        store,
		backend:      backend,
		notifier:     notifier,
		logger:       logger,
		defaultPhone: defaultPhone,
	}
}

// Claimed возвращает копию коллекции полученных наград.
func (s *Service) Claimed() []model.ClaimedReward {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.ClaimedReward, len(s.claimed))
	copy(out, s.claimed)
	return out
}

// History возвращает копию истории обменов.
func (s *Service) History() []model.RedemptionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.RedemptionRecord, len(s.history))
	copy(out, s.history)
	return out
}

// Profile запрашивает профиль клиента у бэкенда.
func (s *Service) Profile(ctx context.Context, phone string) (*model.Profile, error) {
	return s.backend.GetProfile(ctx, s.resolvePhone(phone))
}

func (s *Service) resolvePhone(phone string) string {
	if phone == "" {
		return s.defaultPhone
	}
	return phone
}

// Claim запрашивает у бэкенда новые награды и дописывает их в коллекцию.
// Отказ сети или бэкенда не показывается пользователю — только логируется.
// Профиль перечитывается безусловно, каким бы ни был исход запроса наград;
// возвращается nil, если и профиль получить не удалось.
func (s *Service) Claim(ctx context.Context, phone string) *model.Profile {
	phone = s.resolvePhone(phone)

	res, err := s.backend.Claim(ctx, phone)
	switch {
	case err != nil:
		s.logger.Warn("claim request failed", zap.String("phone", phone), zap.Error(err))
	case len(res.Rewards) > 0:
		for _, rw := range res.Rewards {
			s.notifier.Notify(notify.LevelSuccess, fmt.Sprintf("Reward claimed: %s", rw.Reward))
		}
		s.appendClaimed(res.Rewards)
	default:
		msg := res.Message
		if msg == "" {
			msg = "No rewards available yet"
		}
		s.notifier.Notify(notify.LevelInfo, msg)
	}

	profile, err := s.backend.GetProfile(ctx, phone)
	if err != nil {
		s.logger.Warn("profile refresh failed", zap.String("phone", phone), zap.Error(err))
		return nil
	}

	return profile
}

// appendClaimed дописывает награды в конец коллекции без дедупликации:
// за неповторный выпуск токенов отвечает бэкенд.
func (s *Service) appendClaimed(payloads []rewards.ClaimedRewardPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.ClaimedReward, 0, len(s.claimed)+len(payloads))
	next = append(next, s.claimed...)
	for _, rw := range payloads {
		next = append(next, model.ClaimedReward{
			Reward:    rw.Reward,
			Milestone: rw.Milestone,
			Token:     rw.Token,
			QR:        rw.QRCodeBase64,
		})
	}

	s.claimed = next
	s.store.SaveClaimed(next)
}

// Redeem обменивает награду с указанным токеном. При успехе запись
// удаляется из коллекции по значению токена, а в историю добавляется
// RedemptionRecord с текущим временем киоска. При отказе бэкенда
// состояние не меняется: карточка остаётся доступной для повтора.
func (s *Service) Redeem(ctx context.Context, rewardToken string) error {
	res, err := s.backend.Redeem(ctx, rewardToken)
	if err != nil {
		var rejection *rewards.RedeemError
		if errors.As(err, &rejection) {
			msg := rejection.Detail
			if msg == "" {
				msg = "Redemption was declined"
			}
			s.notifier.Notify(notify.LevelFailure, msg)
			return err
		}

		s.logger.Warn("redeem request failed", zap.Error(err))
		s.notifier.Notify(notify.LevelFailure, "Redemption failed, please try again")
		return err
	}

	s.notifier.Notify(notify.LevelSuccess, fmt.Sprintf("Reward redeemed: %s", res.Reward))

	s.mu.Lock()
	defer s.mu.Unlock()

	// Удаление по значению токена, а не по позиции: параллельное
	// вытеснение могло сдвинуть индексы, пока шёл запрос.
	next := make([]model.ClaimedReward, 0, len(s.claimed))
	removed := false
	for _, cr := range s.claimed {
		if !removed && cr.Token == rewardToken {
			removed = true
			continue
		}
		next = append(next, cr)
	}
	if removed {
		s.claimed = next
		s.store.SaveClaimed(next)
	}

	record := model.RedemptionRecord{
		Reward:    res.Reward,
		Milestone: res.Milestone,
		Timestamp: time.Now(),
	}
	history := make([]model.RedemptionRecord, 0, len(s.history)+1)
	history = append(history, s.history...)
	history = append(history, record)

	s.history = history
	s.store.SaveHistory(history)

	return nil
}

// StartExpirySweeps запускает фоновое вытеснение просроченных наград
// с фиксированным интервалом. Горутина живёт до отмены контекста.
func (s *Service) StartExpirySweeps(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweepExpired(time.Now())
			}
		}
	}()
}

// sweepExpired оставляет только живые награды. Токен без разборного exp
// считается просроченным. Запись в хранилище происходит, только если
// вытеснение действительно изменило длину коллекции.
func (s *Service) sweepExpired(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := make([]model.ClaimedReward, 0, len(s.claimed))
	for _, cr := range s.claimed {
		if !token.Expired(cr.Token, now) {
			live = append(live, cr)
		}
	}

	if len(live) == len(s.claimed) {
		return
	}

	evicted := len(s.claimed) - len(live)
	s.claimed = live
	s.store.SaveClaimed(live)

	s.logger.Info("expired rewards evicted", zap.Int("count", evicted))
}
