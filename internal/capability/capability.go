// Package capability содержит статическую таблицу прав ролей киоска.
package capability

// Role — роль пользователя киоска.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// Capability — именованное право на операцию киоска.
type Capability string

const (
	RedeemRewards Capability = "rewards:redeem"
	ViewHistory   Capability = "history:view"
	ManageKiosk   Capability = "kiosk:manage"
)

var roleCapabilities = map[Role][]Capability{
	RoleCustomer: {},
	RoleStaff:    {RedeemRewards, ViewHistory},
	RoleAdmin:    {RedeemRewards, ViewHistory, ManageKiosk},
}

// Known сообщает, известна ли роль таблице.
func Known(role Role) bool {
	_, ok := roleCapabilities[role]
	return ok
}

// Has сообщает, есть ли у роли указанное право.
func Has(role Role, cap Capability) bool {
	for _, c := range roleCapabilities[role] {
		if c == cap {
			return true
		}
	}
	return false
}
