package rbac

// Role is carried in the JWT and stored on models.User.
type Role string

const (
	RoleAdmin         Role = "ADMIN"
	RoleContentEditor Role = "CONTENT_EDITOR"
	RoleSupport       Role = "SUPPORT"
	RolePartner       Role = "PARTNER"
	RoleUser          Role = "USER"
)

type Permission string

const (
	ViewAdmin        Permission = "view_admin"
	ManageListings   Permission = "manage_listings"
	ApproveListings  Permission = "approve_listings"
	ManageInventory  Permission = "manage_inventory"
	ViewOrders       Permission = "view_orders"
	ManageOrders     Permission = "manage_orders"
	ViewBookings     Permission = "view_bookings"
	ManageBookings   Permission = "manage_bookings"
	ViewVouchers     Permission = "view_vouchers"
	ManageVouchers   Permission = "manage_vouchers"
	ManageUsers      Permission = "manage_users"
	ViewAudit        Permission = "view_audit"
	PartnerDashboard Permission = "partner_dashboard"
	PartnerListings  Permission = "partner_listings"
	PartnerRedeem    Permission = "partner_redeem"
)

// Static role -> permission table; a plain data table plus a lookup, nothing
// dynamic.
var rolePermissions = map[Role][]Permission{
	RoleAdmin: {
		ViewAdmin,
		ManageListings,
		ApproveListings,
		ManageInventory,
		ViewOrders,
		ManageOrders,
		ViewBookings,
		ManageBookings,
		ViewVouchers,
		ManageVouchers,
		ManageUsers,
		ViewAudit,
		PartnerDashboard,
		PartnerListings,
		PartnerRedeem,
	},
	RoleContentEditor: {
		ViewAdmin,
		ManageListings,
		ViewAudit,
	},
	RoleSupport: {
		ViewAdmin,
		ViewOrders,
		ManageOrders,
		ViewBookings,
		ManageBookings,
		ViewVouchers,
		ManageVouchers,
	},
	RolePartner: {
		PartnerDashboard,
		PartnerListings,
		PartnerRedeem,
		ManageInventory,
		ViewBookings,
		ManageBookings,
		ViewVouchers,
	},
	RoleUser: {},
}

func HasPermission(role Role, p Permission) bool {
	for _, perm := range rolePermissions[role] {
		if perm == p {
			return true
		}
	}
	return false
}

func HasAnyPermission(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if HasPermission(role, p) {
			return true
		}
	}
	return false
}
