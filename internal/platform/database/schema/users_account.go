package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table        string
	ID           string
	Username     string
	Email        string
	Password     string
	Role         string
	IsActive     string
	LastLoginAt  string
	DisplayName  string
	AvatarURL    string
	Bio          string
	Preferences  string
	WatchHistory string
	Favorites    string
	CreatedAt    string
	UpdatedAt    string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:        "users.account",
	ID:           "id",
	Username:     "username",
	Email:        "email",
	Password:     "passwordhash",
	Role:         "role",
	IsActive:     "isactive",
	LastLoginAt:  "lastloginat",
	DisplayName:  "displayname",
	AvatarURL:    "avatarurl",
	Bio:          "bio",
	Preferences:  "preferences",
	WatchHistory: "watchhistory",
	Favorites:    "favorites",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.Password, t.Role, t.IsActive,
		t.LastLoginAt, t.DisplayName, t.AvatarURL, t.Bio, t.Preferences,
		t.WatchHistory, t.Favorites, t.CreatedAt, t.UpdatedAt,
	}
}
