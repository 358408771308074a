package schema

// LibraryWatchHistoryTable represents the 'library.watchhistory' table
type LibraryWatchHistoryTable struct {
	Table     string
	ID        string
	UserID    string
	AnimeID   string
	Episode   string
	Progress  string
	Duration  string
	Completed string
	WatchedAt string
}

// LibraryWatchHistory is the schema definition for library.watchhistory
var LibraryWatchHistory = LibraryWatchHistoryTable{
	Table:     "library.watchhistory",
	ID:        "id",
	UserID:    "userid",
	AnimeID:   "animeid",
	Episode:   "episode",
	Progress:  "progress",
	Duration:  "duration",
	Completed: "completed",
	WatchedAt: "watchedat",
}
