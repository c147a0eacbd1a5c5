package rbac

import "testing"

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role Role
		perm Permission
		want bool
	}{
		{RoleAdmin, ManageUsers, true},
		{RoleAdmin, PartnerRedeem, true},
		{RoleContentEditor, ManageListings, true},
		{RoleContentEditor, ManageOrders, false},
		{RoleContentEditor, PartnerRedeem, false},
		{RoleSupport, ManageBookings, true},
		{RoleSupport, ManageListings, false},
		{RoleSupport, ManageUsers, false},
		{RolePartner, PartnerRedeem, true},
		{RolePartner, ManageInventory, true},
		{RolePartner, ApproveListings, false},
		{RolePartner, ViewAudit, false},
		{RoleUser, ViewAdmin, false},
		{Role("UNKNOWN"), ViewAdmin, false},
	}

	for _, tt := range tests {
		if got := HasPermission(tt.role, tt.perm); got != tt.want {
			t.Errorf("HasPermission(%s, %s) = %v, want %v", tt.role, tt.perm, got, tt.want)
		}
	}
}

func TestHasAnyPermission(t *testing.T) {
	if !HasAnyPermission(RoleSupport, ManageListings, ViewOrders) {
		t.Error("support should match via ViewOrders")
	}
	if HasAnyPermission(RoleUser, ManageListings, ViewOrders) {
		t.Error("plain user matched a staff permission")
	}
	if HasAnyPermission(RoleAdmin) {
		t.Error("empty permission list matched")
	}
}

// Partners never hold back-office review powers; this is the boundary the
// partner portal relies on.
func TestPartnerCannotReview(t *testing.T) {
	for _, p := range []Permission{ApproveListings, ManageUsers, ViewAudit, ViewOrders} {
		if HasPermission(RolePartner, p) {
			t.Errorf("partner unexpectedly holds %s", p)
		}
	}
}
