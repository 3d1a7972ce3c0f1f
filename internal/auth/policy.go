package auth

// Resource names the protected areas of the service. Routes declare which
// resource they belong to and the middleware asks Allowed before dispatch.
type Resource string

const (
	ResourceOrders       Resource = "orders"
	ResourceBills        Resource = "bills"
	ResourceTables       Resource = "tables"
	ResourceReservations Resource = "reservations"
	ResourceMenu         Resource = "menu"
	ResourceStaff        Resource = "staff"
	ResourceReports      Resource = "reports"
	ResourceUploads      Resource = "uploads"
)

var rolePolicy = map[Resource][]UserRole{
	ResourceOrders:       {RoleAdmin, RoleManager, RoleWaiter},
	ResourceBills:        {RoleAdmin, RoleManager},
	ResourceTables:       {RoleAdmin, RoleManager, RoleWaiter},
	ResourceReservations: {RoleAdmin, RoleManager, RoleWaiter},
	ResourceMenu:         {RoleAdmin, RoleManager},
	ResourceStaff:        {RoleAdmin},
	ResourceReports:      {RoleAdmin, RoleManager},
	ResourceUploads:      {RoleAdmin, RoleManager},
}

func Allowed(role UserRole, resource Resource) bool {
	roles, ok := rolePolicy[resource]
	if !ok {
		return false
	}
	for _, allowed := range roles {
		if allowed == role {
			return true
		}
	}
	return false
}
