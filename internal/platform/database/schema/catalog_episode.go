package schema

// CatalogEpisodeTable represents the 'catalog.episode' table
type CatalogEpisodeTable struct {
	Table     string
	ID        string
	AnimeID   string
	Number    string
	Title     string
	Duration  string
	SourceURL string
	CreatedAt string
}

// CatalogEpisode is the schema definition for catalog.episode
var CatalogEpisode = CatalogEpisodeTable{
	Table:     "catalog.episode",
	ID:        "id",
	AnimeID:   "animeid",
	Number:    "number",
	Title:     "title",
	Duration:  "duration",
	SourceURL: "sourceurl",
	CreatedAt: "createdat",
}
