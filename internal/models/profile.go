package models

// Song is the decoded form of the tuneOfMonth field. The mobile clients store
// it as a JSON string produced by the music catalog search.
type Song struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Artist   string `json:"artist"`
	AlbumArt string `json:"albumArt"`
}

// Album is the decoded form of the favoriteAlbum field.
type Album struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Artist   string `json:"artist"`
	AlbumArt string `json:"albumArt"`
}

// Artist is the decoded form of favoriteArtists entries. Popularity is only
// present when the entry came from the related-artists endpoint.
type Artist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Picture    string `json:"picture"`
	Popularity int    `json:"popularity,omitempty"`
}

// Prompt is one question/answer pair flattened out of the prompts map.
type Prompt struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ProfileViewModel is the render-ready aggregate built from one user document
// snapshot. It is derived, never stored: every upstream change produces a
// fresh value, and a decode failure on one field leaves the others intact.
type ProfileViewModel struct {
	UserID              string   `json:"user_id"`
	Name                string   `json:"name"`
	Location            string   `json:"location"`
	Gender              string   `json:"gender,omitempty"`
	ProfileImageURL     string   `json:"profile_image_url"`
	TuneOfMonth         *Song    `json:"tune_of_month,omitempty"`
	FavoriteAlbum       *Album   `json:"favorite_album,omitempty"`
	FavoriteArtists     []Artist `json:"favorite_artists"`
	FavoritePerformance string   `json:"favorite_performance,omitempty"`
	MusicPreference     []string `json:"music_preference"`
	Prompts             []Prompt `json:"prompts"`
	MyDisposable        string   `json:"my_disposable,omitempty"`
	AnimatedBorder      string   `json:"animated_border,omitempty"`
	BorderAssetURL      string   `json:"border_asset_url,omitempty"`
}
