package capability

import "testing"

func TestHas(t *testing.T) {
	tests := []struct {
		name string
		role Role
		cap  Capability
		want bool
	}{
		{name: "customer cannot redeem", role: RoleCustomer, cap: RedeemRewards, want: false},
		{name: "staff can redeem", role: RoleStaff, cap: RedeemRewards, want: true},
		{name: "staff can view history", role: RoleStaff, cap: ViewHistory, want: true},
		{name: "staff cannot manage kiosk", role: RoleStaff, cap: ManageKiosk, want: false},
		{name: "admin can manage kiosk", role: RoleAdmin, cap: ManageKiosk, want: true},
		{name: "unknown role has nothing", role: Role("ghost"), cap: RedeemRewards, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Has(tt.role, tt.cap); got != tt.want {
				t.Fatalf("Has(%s, %s) = %v, want %v", tt.role, tt.cap, got, tt.want)
			}
		})
	}
}

func TestKnown(t *testing.T) {
	if !Known(RoleStaff) {
		t.Fatalf("staff must be a known role")
	}
	if Known(Role("ghost")) {
		t.Fatalf("ghost must not be a known role")
	}
}
