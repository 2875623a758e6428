package model

// AdminStats is the platform-wide summary shown on the admin dashboard.
// It is recomputed from the collections on every request.
type AdminStats struct {
	TotalUsers        int `json:"totalUsers"`
	TotalOwners       int `json:"totalOwners"`
	TotalProperties   int `json:"totalProperties"`
	PendingProperties int `json:"pendingProperties"`
	TotalBookings     int `json:"totalBookings"`
}

// OwnerStats summarizes one owner's listings and requests.
type OwnerStats struct {
	MyProperties  int `json:"myProperties"`
	TotalRequests int `json:"totalRequests"`
	ActiveTenants int `json:"activeTenants"`
}
