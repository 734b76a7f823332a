package profile

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/maxiguillermo1/senior-project/internal/metrics"
	"github.com/maxiguillermo1/senior-project/internal/models"
	"github.com/maxiguillermo1/senior-project/internal/store"
)

// Placeholder text shown when a profile field was never set.
const (
	PlaceholderName     = "Name not set"
	PlaceholderLocation = "Location not set"
)

// Builder turns one raw user document snapshot into one ProfileViewModel.
// Build is a pure function of the snapshot and cannot fail as a whole: each
// optional JSON-encoded field decodes independently, and a malformed field
// yields an unset slot plus a logged decode failure while every sibling
// field is processed normally.
type Builder struct {
	logger *zap.SugaredLogger
}

func NewBuilder(logger *zap.SugaredLogger) *Builder {
	return &Builder{logger: logger}
}

// Build derives the view model for one snapshot. A non-existent document
// yields nil.
func (b *Builder) Build(snap store.Snapshot) *models.ProfileViewModel {
	if !snap.Exists {
		return nil
	}
	start := time.Now()
	defer func() {
		metrics.ProfileBuildsTotal.Inc()
		metrics.ProfileBuildDuration.Observe(time.Since(start).Seconds())
	}()

	vm := &models.ProfileViewModel{
		UserID:              snap.String("uid"),
		Name:                displayName(snap),
		Location:            displayLocation(snap),
		Gender:              snap.String("gender"),
		ProfileImageURL:     snap.String("profileImageUrl"),
		FavoritePerformance: snap.String("favoritePerformance"),
		MyDisposable:        snap.String("myDisposables"),
		AnimatedBorder:      snap.String("AnimatedBorder"),
		MusicPreference:     stringSlice(snap.Data["musicPreference"]),
		Prompts:             flattenPrompts(snap.Data["prompts"]),
	}

	if song := new(models.Song); b.decodeField(snap, "tuneOfMonth", song) {
		vm.TuneOfMonth = song
	}
	if album := new(models.Album); b.decodeField(snap, "favoriteAlbum", album) {
		vm.FavoriteAlbum = album
	}
	vm.FavoriteArtists = b.decodeArtists(snap)

	return vm
}

// decodeField decodes one optional JSON-string field into target. Absent or
// empty fields are not an error; malformed JSON is logged and isolated.
func (b *Builder) decodeField(snap store.Snapshot, field string, target interface{}) bool {
	raw := snap.String(field)
	if strings.TrimSpace(raw) == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		b.logDecodeFailure(field, raw, err)
		return false
	}
	return true
}

// decodeArtists handles both schema generations: favoriteArtists holding a
// JSON array, or the legacy favoriteArtist holding a single object.
func (b *Builder) decodeArtists(snap store.Snapshot) []models.Artist {
	field := "favoriteArtists"
	raw := snap.String(field)
	if strings.TrimSpace(raw) == "" {
		field = "favoriteArtist"
		raw = snap.String(field)
	}
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var artists []models.Artist
	if err := json.Unmarshal([]byte(raw), &artists); err == nil {
		return artists
	}

	var one models.Artist
	if err := json.Unmarshal([]byte(raw), &one); err != nil {
		b.logDecodeFailure(field, raw, err)
		return nil
	}
	return []models.Artist{one}
}

func (b *Builder) logDecodeFailure(field, raw string, err error) {
	metrics.FieldDecodeFailuresTotal.WithLabelValues(field).Inc()
	if b.logger != nil {
		b.logger.Warnw("profile field decode failed",
			"field", field,
			"raw", raw,
			"error", err,
		)
	}
}

func displayName(snap store.Snapshot) string {
	if name := strings.TrimSpace(snap.String("displayName")); name != "" {
		return name
	}
	full := strings.TrimSpace(snap.String("firstName") + " " + snap.String("lastName"))
	if full != "" {
		return full
	}
	return PlaceholderName
}

func displayLocation(snap store.Snapshot) string {
	if loc := strings.TrimSpace(snap.String("displayLocation")); loc != "" {
		return loc
	}
	if loc := strings.TrimSpace(snap.String("location")); loc != "" {
		return loc
	}
	return PlaceholderLocation
}

func stringSlice(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// flattenPrompts converts the question->answer map into an ordered sequence.
// The store does not guarantee map key order, so the result is sorted by
// question to keep rebuilds deterministic.
func flattenPrompts(v interface{}) []models.Prompt {
	m, ok := v.(map[string]interface{})
	if !ok {
		return []models.Prompt{}
	}
	out := make([]models.Prompt, 0, len(m))
	for q, a := range m {
		answer, _ := a.(string)
		out = append(out, models.Prompt{Question: q, Answer: answer})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Question < out[j].Question })
	return out
}
