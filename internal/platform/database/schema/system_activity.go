package schema

// SystemActivityTable represents the 'system.activity' table
type SystemActivityTable struct {
	Table     string
	ID        string
	UserID    string
	Action    string
	Details   string
	IPAddress string
	UserAgent string
	CreatedAt string
}

var SystemActivity = SystemActivityTable{
	Table:     "system.activity",
	ID:        "id",
	UserID:    "userid",
	Action:    "action",
	Details:   "details",
	IPAddress: "ipaddress",
	UserAgent: "useragent",
	CreatedAt: "createdat",
}
