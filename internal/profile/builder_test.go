package profile

import (
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/maxiguillermo1/senior-project/internal/models"
	"github.com/maxiguillermo1/senior-project/internal/store"
)

func snapshotOf(data map[string]interface{}) store.Snapshot {
	return store.Snapshot{Path: "users/test", Exists: true, Data: data}
}

func TestBuildDecodesValidFields(t *testing.T) {
	b := NewBuilder(zap.NewNop().Sugar())

	vm := b.Build(snapshotOf(map[string]interface{}{
		"firstName":       "Miles",
		"lastName":        "Morales",
		"location":        "Brooklyn, New York",
		"tuneOfMonth":     `{"id":"7","name":"Sunflower","artist":"Post Malone","albumArt":"http://x/s.jpg"}`,
		"favoriteAlbum":   `{"id":"1","name":"Thriller","artist":"MJ","albumArt":"http://x/a.jpg"}`,
		"favoriteArtists": `[{"id":"2","name":"Prince","picture":"http://x/p.jpg"}]`,
		"musicPreference": []interface{}{"R&B", "Hip-Hop"},
	}))

	if vm.Name != "Miles Morales" {
		t.Errorf("Name = %q, want %q", vm.Name, "Miles Morales")
	}
	if vm.Location != "Brooklyn, New York" {
		t.Errorf("Location = %q, want %q", vm.Location, "Brooklyn, New York")
	}
	wantSong := &models.Song{ID: "7", Name: "Sunflower", Artist: "Post Malone", AlbumArt: "http://x/s.jpg"}
	if !reflect.DeepEqual(vm.TuneOfMonth, wantSong) {
		t.Errorf("TuneOfMonth = %+v, want %+v", vm.TuneOfMonth, wantSong)
	}
	wantAlbum := &models.Album{ID: "1", Name: "Thriller", Artist: "MJ", AlbumArt: "http://x/a.jpg"}
	if !reflect.DeepEqual(vm.FavoriteAlbum, wantAlbum) {
		t.Errorf("FavoriteAlbum = %+v, want %+v", vm.FavoriteAlbum, wantAlbum)
	}
	if len(vm.FavoriteArtists) != 1 || vm.FavoriteArtists[0].Name != "Prince" {
		t.Errorf("FavoriteArtists = %+v, want one entry named Prince", vm.FavoriteArtists)
	}
	if !reflect.DeepEqual(vm.MusicPreference, []string{"R&B", "Hip-Hop"}) {
		t.Errorf("MusicPreference = %v", vm.MusicPreference)
	}
}

// A malformed field must yield an unset slot and leave every sibling slot
// exactly as it would be had the field been absent.
func TestBuildIsolatesDecodeFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	b := NewBuilder(zap.New(core).Sugar())

	data := map[string]interface{}{
		"firstName":     "Miles",
		"lastName":      "Morales",
		"favoriteAlbum": `{"id":"1","name":"Thriller","artist":"MJ","albumArt":"http://x/a.jpg"}`,
		"tuneOfMonth":   "not-json",
	}
	vm := b.Build(snapshotOf(data))

	if vm.TuneOfMonth != nil {
		t.Errorf("TuneOfMonth = %+v, want unset", vm.TuneOfMonth)
	}
	if vm.Name != "Miles Morales" {
		t.Errorf("Name = %q, want %q", vm.Name, "Miles Morales")
	}
	if vm.FavoriteAlbum == nil || vm.FavoriteAlbum.Name != "Thriller" {
		t.Errorf("FavoriteAlbum = %+v, want Thriller", vm.FavoriteAlbum)
	}

	// Differential check: same snapshot with the malformed field removed
	// must produce an identical view model.
	delete(data, "tuneOfMonth")
	want := b.Build(snapshotOf(data))
	if !reflect.DeepEqual(vm, want) {
		t.Errorf("decode failure affected sibling slots:\n got %+v\nwant %+v", vm, want)
	}

	entries := logs.FilterMessage("profile field decode failed").All()
	if len(entries) != 1 {
		t.Fatalf("decode failure log entries = %d, want 1", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["field"] != "tuneOfMonth" {
		t.Errorf("logged field = %v, want tuneOfMonth", ctx["field"])
	}
	if ctx["raw"] != "not-json" {
		t.Errorf("logged raw = %v, want not-json", ctx["raw"])
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	b := NewBuilder(zap.NewNop().Sugar())
	data := map[string]interface{}{
		"displayName": "DJ Test",
		"tuneOfMonth": `{"id":"1","name":"A","artist":"B","albumArt":"c"}`,
		"prompts":     map[string]interface{}{"Q1": "A1", "Q2": "A2"},
	}

	first := b.Build(snapshotOf(data))
	second := b.Build(snapshotOf(data))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two builds of the same snapshot differ:\n %+v\n %+v", first, second)
	}
}

func TestBuildPlaceholders(t *testing.T) {
	b := NewBuilder(zap.NewNop().Sugar())

	tests := []struct {
		name string
		data map[string]interface{}
		want func(t *testing.T, vm *models.ProfileViewModel)
	}{
		{
			name: "empty document",
			data: map[string]interface{}{},
			want: func(t *testing.T, vm *models.ProfileViewModel) {
				if vm.Name != PlaceholderName {
					t.Errorf("Name = %q, want %q", vm.Name, PlaceholderName)
				}
				if vm.Location != PlaceholderLocation {
					t.Errorf("Location = %q, want %q", vm.Location, PlaceholderLocation)
				}
				if vm.TuneOfMonth != nil || vm.FavoriteAlbum != nil {
					t.Error("expected unset song and album slots")
				}
				if len(vm.MusicPreference) != 0 || len(vm.Prompts) != 0 {
					t.Error("expected empty preference and prompt sequences")
				}
			},
		},
		{
			name: "displayName wins over first/last",
			data: map[string]interface{}{
				"firstName":   "Miles",
				"lastName":    "Morales",
				"displayName": "Spider-Man",
			},
			want: func(t *testing.T, vm *models.ProfileViewModel) {
				if vm.Name != "Spider-Man" {
					t.Errorf("Name = %q, want Spider-Man", vm.Name)
				}
			},
		},
		{
			name: "displayLocation wins over location",
			data: map[string]interface{}{
				"location":        "Queens",
				"displayLocation": "NYC",
			},
			want: func(t *testing.T, vm *models.ProfileViewModel) {
				if vm.Location != "NYC" {
					t.Errorf("Location = %q, want NYC", vm.Location)
				}
			},
		},
		{
			name: "empty json string fields are unset not errors",
			data: map[string]interface{}{
				"tuneOfMonth":   "",
				"favoriteAlbum": "  ",
			},
			want: func(t *testing.T, vm *models.ProfileViewModel) {
				if vm.TuneOfMonth != nil || vm.FavoriteAlbum != nil {
					t.Error("expected unset slots for empty fields")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.want(t, b.Build(snapshotOf(tc.data)))
		})
	}
}

func TestBuildFlattensPrompts(t *testing.T) {
	b := NewBuilder(zap.NewNop().Sugar())

	vm := b.Build(snapshotOf(map[string]interface{}{
		"prompts": map[string]interface{}{"Q1": "A1", "Q2": "A2"},
	}))

	if len(vm.Prompts) != 2 {
		t.Fatalf("Prompts len = %d, want 2", len(vm.Prompts))
	}
	got := map[string]string{}
	for _, p := range vm.Prompts {
		got[p.Question] = p.Answer
	}
	if got["Q1"] != "A1" || got["Q2"] != "A2" {
		t.Errorf("Prompts = %+v", vm.Prompts)
	}
}

func TestBuildArtistFallbacks(t *testing.T) {
	b := NewBuilder(zap.NewNop().Sugar())

	t.Run("single legacy artist object", func(t *testing.T) {
		vm := b.Build(snapshotOf(map[string]interface{}{
			"favoriteArtist": `{"id":"9","name":"Sade","picture":"http://x/i.jpg"}`,
		}))
		if len(vm.FavoriteArtists) != 1 || vm.FavoriteArtists[0].Name != "Sade" {
			t.Errorf("FavoriteArtists = %+v", vm.FavoriteArtists)
		}
	})

	t.Run("array with popularity", func(t *testing.T) {
		vm := b.Build(snapshotOf(map[string]interface{}{
			"favoriteArtists": `[{"id":"9","name":"Sade","picture":"p","popularity":80}]`,
		}))
		if len(vm.FavoriteArtists) != 1 || vm.FavoriteArtists[0].Popularity != 80 {
			t.Errorf("FavoriteArtists = %+v", vm.FavoriteArtists)
		}
	})

	t.Run("malformed artists isolated", func(t *testing.T) {
		vm := b.Build(snapshotOf(map[string]interface{}{
			"favoriteArtists": `{{bad`,
			"displayName":     "Still Here",
		}))
		if vm.FavoriteArtists != nil {
			t.Errorf("FavoriteArtists = %+v, want nil", vm.FavoriteArtists)
		}
		if vm.Name != "Still Here" {
			t.Errorf("Name = %q", vm.Name)
		}
	})
}

func TestBuildMissingDocument(t *testing.T) {
	b := NewBuilder(zap.NewNop().Sugar())
	if vm := b.Build(store.Snapshot{Path: "users/gone"}); vm != nil {
		t.Errorf("Build of non-existent doc = %+v, want nil", vm)
	}
}
