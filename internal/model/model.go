// Package model содержит доменные сущности киоск-агента программы лояльности.
package model

import "time"

// ClaimedReward описывает полученную, но ещё не использованную награду.
// Token — подписанный бэкендом учётный документ, QR — его изображение
// в base64 для сканирования на стойке.
type ClaimedReward struct {
	Reward    string `json:"reward"`
	Milestone int    `json:"milestone"`
	Token     string `json:"token"`
	QR        string `json:"qr"`
}

// RedemptionRecord описывает завершённое использование награды.
// Timestamp фиксируется по часам киоска в момент успешного обмена;
// после создания запись не изменяется.
type RedemptionRecord struct {
	Reward    string    `json:"reward"`
	Milestone int       `json:"milestone"`
	Timestamp time.Time `json:"timestamp"`
}

// UpcomingReward описывает ближайшую по числу визитов награду из профиля клиента.
type UpcomingReward struct {
	Reward     string `json:"reward"`
	Milestone  int    `json:"milestone"`
	VisitsLeft int    `json:"visits_left"`
}

// Profile содержит данные клиента, возвращаемые бэкендом по номеру телефона.
type Profile struct {
	Phone               string           `json:"phone"`
	Visits              int              `json:"visits"`
	UpcomingRewards     []UpcomingReward `json:"upcoming_rewards"`
	RewardsReadyToClaim int              `json:"rewards_ready_to_claim"`
}
