package schema

// CatalogAnimeTable represents the 'catalog.anime' table
type CatalogAnimeTable struct {
	Table        string
	ID           string
	Title        string
	AltTitle     string
	Description  string
	CoverURL     string
	BannerURL    string
	Genres       string
	Studio       string
	Year         string
	Status       string
	Rating       string
	EpisodeCount string
	CreatedAt    string
	UpdatedAt    string
}

// CatalogAnime is the schema definition for catalog.anime
var CatalogAnime = CatalogAnimeTable{
	Table:        "catalog.anime",
	ID:           "id",
	Title:        "title",
	AltTitle:     "alttitle",
	Description:  "description",
	CoverURL:     "coverurl",
	BannerURL:    "bannerurl",
	Genres:       "genres",
	Studio:       "studio",
	Year:         "year",
	Status:       "status",
	Rating:       "rating",
	EpisodeCount: "episodecount",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns all standard column names
func (t CatalogAnimeTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.AltTitle, t.Description, t.CoverURL, t.BannerURL,
		t.Genres, t.Studio, t.Year, t.Status, t.Rating, t.EpisodeCount,
		t.CreatedAt, t.UpdatedAt,
	}
}
