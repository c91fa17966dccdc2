package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ratemymusic/rmm-api/internal/domain"
	"github.com/ratemymusic/rmm-api/internal/logger"
	"github.com/ratemymusic/rmm-api/internal/store"
)

type services struct {
	repo    *store.DB
	auth    *AuthService
	artists *ArtistService
	genres  *GenreService
	songs   *SongService
	lists   *ListService
	ratings *RatingService
	raters  *RaterService
	search  *SearchService
	stats   *StatsService
}

func setupServices(t *testing.T) (*services, func()) {
	t.Helper()
	repo, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	log := logger.Discard()
	svc := &services{
		repo:    repo,
		auth:    NewAuthService(repo, NewPasswordHasher(1000), log),
		artists: NewArtistService(repo, log),
		genres:  NewGenreService(repo, log),
		songs:   NewSongService(repo, log),
		lists:   NewListService(repo, log),
		ratings: NewRatingService(repo, log),
		raters:  NewRaterService(repo),
		search:  NewSearchService(repo),
		stats:   NewStatsService(repo),
	}
	return svc, func() {
		if err := repo.Close(); err != nil {
			t.Logf("repo.Close error: %v", err)
		}
	}
}

func (s *services) register(t *testing.T, username string) *domain.RaterProfile {
	t.Helper()
	ctx := context.Background()
	key, err := s.auth.Register(ctx, RegisterInput{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "test",
		FirstName: "First",
		LastName:  "Last",
		Bio:       "I am just a cool boi.",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	caller, err := s.auth.Authenticate(ctx, key)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	return caller
}

func (s *services) seedCatalog(t *testing.T, caller *domain.RaterProfile) (artistID int64) {
	t.Helper()
	ctx := context.Background()
	if _, err := s.genres.Seed(ctx, []string{"Indie Pop", "Indie Folk"}); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	artist, err := s.artists.Create(ctx, caller, ArtistInput{Name: "The Magnetic Fields", Description: "A great band.", FoundedYear: 1990})
	if err != nil {
		t.Fatalf("Create artist failed: %v", err)
	}
	return artist.ID
}

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }
func int64p(i int64) *int64 { return &i }

func source(url string, primary bool) SourceInput {
	return SourceInput{Service: strp("YouTube"), URL: strp(url), IsPrimary: boolp(primary)}
}

func assertAppError(t *testing.T, err error, kind error, message string) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("Expected %v error, got %v", kind, err)
	}
	if message != "" && err.Error() != message {
		t.Errorf("Expected message %q, got %q", message, err.Error())
	}
}

func TestAuthorize(t *testing.T) {
	owner := &domain.RaterProfile{ID: 2}
	other := &domain.RaterProfile{ID: 3}

	tests := []struct {
		name    string
		caller  *domain.RaterProfile
		action  Action
		wantErr error
	}{
		{name: "read by anyone", caller: other, action: ActionRead},
		{name: "create by anyone", caller: other, action: ActionCreate},
		{name: "update by owner", caller: owner, action: ActionUpdate},
		{name: "delete by owner", caller: owner, action: ActionDelete},
		{name: "update by other", caller: other, action: ActionUpdate, wantErr: ErrForbidden},
		{name: "delete by other", caller: other, action: ActionDelete, wantErr: ErrForbidden},
		{name: "anonymous", caller: nil, action: ActionRead, wantErr: ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.caller, tt.action, owner.ID)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(1000)

	encoded, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !h.Verify(encoded, "s3cret") {
		t.Error("Expected password to verify")
	}
	if h.Verify(encoded, "wrong") {
		t.Error("Expected wrong password to fail")
	}

	for _, bad := range []string{"", "!", "md5$1$salt$hash", "pbkdf2_sha256$x$salt$hash", "pbkdf2_sha256$10$salt$***"} {
		if h.Verify(bad, "s3cret") {
			t.Errorf("Expected malformed hash %q to fail", bad)
		}
	}

	other, _ := h.Hash("s3cret")
	if other == encoded {
		t.Error("Expected distinct salts per hash")
	}
}

func TestAuthService(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	caller := svc.register(t, "jweckert17")
	if caller.ID != 2 {
		t.Errorf("Expected first rater id 2 after the sentinel, got %d", caller.ID)
	}

	_, err := svc.auth.Register(ctx, RegisterInput{Username: "jweckert17", Email: "new@example.com", Password: "x"})
	assertAppError(t, err, ErrInvalid, "A user with that username already exists.")

	_, err = svc.auth.Register(ctx, RegisterInput{Username: "someone", Email: "JWECKERT17@example.com", Password: "x"})
	assertAppError(t, err, ErrInvalid, "A user with that email already exists.")

	key, ok, err := svc.auth.Login(ctx, "jweckert17", "test")
	if err != nil || !ok || len(key) != 40 {
		t.Errorf("Expected valid login with 40 char key, got %q %v %v", key, ok, err)
	}

	tests := []struct {
		username string
		password string
	}{
		{username: "jweckert17", password: "nope"},
		{username: "nobody", password: "test"},
		{username: "deleted", password: "!"},
	}
	for _, tt := range tests {
		_, ok, err := svc.auth.Login(ctx, tt.username, tt.password)
		if err != nil || ok {
			t.Errorf("Login(%q, %q) = %v, %v; want invalid", tt.username, tt.password, ok, err)
		}
	}

	_, err = svc.auth.Authenticate(ctx, "bogus")
	assertAppError(t, err, ErrUnauthorized, "")

	if err := svc.auth.DeleteUser(ctx, "jweckert17"); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if _, err := svc.auth.Authenticate(ctx, key); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Expected deleted user's token to be rejected, got %v", err)
	}
}

type countingHasher struct {
	*PasswordHasher
	hashes int
}

func (h *countingHasher) Hash(password string) (string, error) {
	h.hashes++
	return h.PasswordHasher.Hash(password)
}

func TestAuthService_HashesOnlyFreshRegistrations(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	hasher := &countingHasher{PasswordHasher: NewPasswordHasher(1000)}
	auth := NewAuthService(svc.repo, hasher, logger.Discard())

	in := RegisterInput{Username: "first", Email: "first@example.com", Password: "pw", Bio: "Hi."}
	if _, err := auth.Register(ctx, in); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if hasher.hashes != 1 {
		t.Fatalf("Expected 1 hash after registering, got %d", hasher.hashes)
	}

	_, err := auth.Register(ctx, RegisterInput{Username: "first", Email: "other@example.com", Password: "pw", Bio: "Hi."})
	assertAppError(t, err, ErrInvalid, "A user with that username already exists.")
	_, err = auth.Register(ctx, RegisterInput{Username: "second", Email: "FIRST@example.com", Password: "pw", Bio: "Hi."})
	assertAppError(t, err, ErrInvalid, "A user with that email already exists.")
	_, err = auth.Register(ctx, RegisterInput{Username: "third", Email: "third@example.com", Password: "", Bio: "Hi."})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Expected blank password to be rejected, got %v", err)
	}

	if hasher.hashes != 1 {
		t.Errorf("Rejected registrations should not hash, got %d hashes", hasher.hashes)
	}

	if _, ok, err := auth.Login(ctx, "first", "pw"); err != nil || !ok {
		t.Errorf("Expected login with stored hash to succeed, got %v %v", ok, err)
	}
}

func TestArtistService_Permissions(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	owner := svc.register(t, "owner")
	other := svc.register(t, "other")
	artistID := svc.seedCatalog(t, owner)
	if artistID != 1 {
		t.Errorf("Expected first artist id 1, got %d", artistID)
	}

	_, err := svc.artists.Update(ctx, other, artistID, ArtistInput{Name: "x", Description: "y", FoundedYear: 1})
	assertAppError(t, err, ErrForbidden, "You must be the creator of this object to modify it.")

	err = svc.artists.Delete(ctx, other, artistID)
	assertAppError(t, err, ErrForbidden, "")

	_, err = svc.artists.Get(ctx, 999)
	assertAppError(t, err, ErrNotFound, "No artist was found with that ID.")

	updated, err := svc.artists.Update(ctx, owner, artistID, ArtistInput{Name: "Fields", Description: "y", FoundedYear: 1991})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "Fields" || updated.FoundedYear != 1991 {
		t.Errorf("Unexpected update result %+v", updated)
	}

	_, err = svc.artists.Create(ctx, owner, ArtistInput{Name: string(make([]byte, 151)), Description: "d"})
	if err == nil {
		t.Fatal("Expected validation failure")
	}
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Field != "name" {
		t.Errorf("Expected field error on name, got %v", err)
	}
}

func TestSongService_CreateValidation(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	caller := svc.register(t, "songs")
	artistID := svc.seedCatalog(t, caller)

	tests := []struct {
		name    string
		input   SongInput
		message string
	}{
		{
			name:    "two primaries",
			input:   SongInput{Name: "s", Year: 1999, ArtistID: artistID, GenreIDs: []int64{1}, Sources: []SourceInput{source("a", true), source("b", true)}},
			message: "There must be one and only one primary source.",
		},
		{
			name:    "no primary",
			input:   SongInput{Name: "s", Year: 1999, ArtistID: artistID, GenreIDs: []int64{1}, Sources: []SourceInput{source("a", false)}},
			message: "There must be one and only one primary source.",
		},
		{
			name:    "unknown genre",
			input:   SongInput{Name: "s", Year: 1999, ArtistID: artistID, GenreIDs: []int64{1, 42}, Sources: []SourceInput{source("a", true)}},
			message: "The genre id 42 does not match an existing genre.",
		},
		{
			name:    "unknown artist",
			input:   SongInput{Name: "s", Year: 1999, ArtistID: 77, GenreIDs: []int64{1}, Sources: []SourceInput{source("a", true)}},
			message: "The artist id 77 does not match an existing artist.",
		},
		{
			name:    "empty genres",
			input:   SongInput{Name: "s", Year: 1999, ArtistID: artistID, Sources: []SourceInput{source("a", true)}},
			message: "A song must have at least one genre.",
		},
		{
			name:    "source missing keys",
			input:   SongInput{Name: "s", Year: 1999, ArtistID: artistID, GenreIDs: []int64{1}, Sources: []SourceInput{{URL: strp("a")}}},
			message: "All sources must contain `service`, `url` and `is_primary` properties.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.songs.Create(ctx, caller, tt.input)
			assertAppError(t, err, ErrInvalid, tt.message)
		})
	}
}

func TestSongService_UpdateReconciles(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	caller := svc.register(t, "songs")
	artistID := svc.seedCatalog(t, caller)

	song, err := svc.songs.Create(ctx, caller, SongInput{
		Name:     "Save a Secret for the Moon",
		Year:     1999,
		ArtistID: artistID,
		GenreIDs: []int64{1},
		Sources:  []SourceInput{source("https://yt/1", true), source("https://sp/1", false)},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(song.Genres) != 1 || len(song.Sources) != 2 {
		t.Fatalf("Expected 1 genre and 2 sources, got %d and %d", len(song.Genres), len(song.Sources))
	}
	if song.Artist == nil || song.Artist.Name != "The Magnetic Fields" {
		t.Errorf("Expected hydrated artist, got %+v", song.Artist)
	}
	keptID := song.Sources[1].ID

	// The update flips primaries without re-checking the primary count
	updated, err := svc.songs.Update(ctx, caller, song.ID, SongInput{
		Name:     "Save a Secret for the Moon",
		Year:     1999,
		ArtistID: artistID,
		GenreIDs: []int64{2},
		Sources:  []SourceInput{source("https://sp/1", true), source("https://bc/1", true)},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(updated.Genres) != 1 || updated.Genres[0].ID != 2 {
		t.Errorf("Expected genres [2], got %+v", updated.Genres)
	}
	if len(updated.Sources) != 2 {
		t.Fatalf("Expected 2 sources, got %d", len(updated.Sources))
	}
	if updated.Sources[0].ID != keptID || !updated.Sources[0].IsPrimary {
		t.Errorf("Expected retained source %d to become primary, got %+v", keptID, updated.Sources[0])
	}
	if updated.Sources[1].URL != "https://bc/1" {
		t.Errorf("Expected new source to be appended, got %+v", updated.Sources[1])
	}
}

func TestListService_UpdateDiff(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	caller := svc.register(t, "lists")
	artistID := svc.seedCatalog(t, caller)

	var songIDs []int64
	for i, name := range []string{"A", "B", "C"} {
		song, err := svc.songs.Create(ctx, caller, SongInput{
			Name: name, Year: 2000 + i, ArtistID: artistID, GenreIDs: []int64{1},
			Sources: []SourceInput{source("https://x/"+name, true)},
		})
		if err != nil {
			t.Fatalf("Create song failed: %v", err)
		}
		songIDs = append(songIDs, song.ID)
	}

	list, err := svc.lists.Create(ctx, caller, ListInput{
		Name:        "Favorites",
		Description: "Mine",
		Songs: []ListSongInput{
			{ID: int64p(songIDs[0]), Description: strp("first")},
			{ID: int64p(songIDs[1]), Description: strp("second")},
		},
	})
	if err != nil {
		t.Fatalf("Create list failed: %v", err)
	}
	retainedID := list.Songs[1].ID

	updated, err := svc.lists.Update(ctx, caller, list.ID, ListInput{
		Name:        "Favorites",
		Description: "Mine",
		Songs: []ListSongInput{
			{ID: int64p(songIDs[1]), Description: strp("second, revised")},
			{ID: int64p(songIDs[2]), Description: strp("third")},
		},
	})
	if err != nil {
		t.Fatalf("Update list failed: %v", err)
	}
	if len(updated.Songs) != 2 {
		t.Fatalf("Expected 2 memberships, got %d", len(updated.Songs))
	}
	if updated.Songs[0].ID != retainedID || updated.Songs[0].Description != "second, revised" {
		t.Errorf("Expected membership %d updated in place, got %+v", retainedID, updated.Songs[0])
	}
	if updated.Songs[1].SongID != songIDs[2] {
		t.Errorf("Expected new membership for song %d, got %+v", songIDs[2], updated.Songs[1])
	}
	if updated.Songs[0].Song == nil || updated.Songs[0].Song.Name != "B" {
		t.Errorf("Expected hydrated song, got %+v", updated.Songs[0].Song)
	}

	tests := []struct {
		name    string
		songs   []ListSongInput
		message string
	}{
		{
			name:    "duplicates",
			songs:   []ListSongInput{{ID: int64p(songIDs[0]), Description: strp("")}, {ID: int64p(songIDs[0]), Description: strp("")}},
			message: "List cannot contain any duplicate songs.",
		},
		{
			name:    "missing description",
			songs:   []ListSongInput{{ID: int64p(songIDs[0])}},
			message: "All songs must contain `id` and `description` properties.",
		},
		{
			name:    "unknown song",
			songs:   []ListSongInput{{ID: int64p(404), Description: strp("")}},
			message: "The song id 404 does not match an existing song.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.lists.Create(ctx, caller, ListInput{Name: "n", Description: "d", Songs: tt.songs})
			assertAppError(t, err, ErrInvalid, tt.message)
		})
	}
}

func TestListService_Favorites(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	owner := svc.register(t, "owner")
	fan := svc.register(t, "fan")
	list, err := svc.lists.Create(ctx, owner, ListInput{Name: "n", Description: "d", Songs: []ListSongInput{}})
	if err != nil {
		t.Fatalf("Create list failed: %v", err)
	}

	if err := svc.lists.Favorite(ctx, fan, list.ID); err != nil {
		t.Fatalf("Favorite failed: %v", err)
	}
	assertAppError(t, svc.lists.Favorite(ctx, fan, list.ID), ErrInvalid, "The user has already favorited that list.")

	got, err := svc.lists.Get(ctx, fan, list.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.FavCount != 1 || !got.HasRaterFavorited {
		t.Errorf("Expected favorited list with count 1, got %d %v", got.FavCount, got.HasRaterFavorited)
	}

	if err := svc.lists.Unfavorite(ctx, fan, list.ID); err != nil {
		t.Fatalf("Unfavorite failed: %v", err)
	}
	assertAppError(t, svc.lists.Unfavorite(ctx, fan, list.ID), ErrInvalid, "The user has not favorited that list.")
	assertAppError(t, svc.lists.Favorite(ctx, fan, 999), ErrNotFound, "No list was found with that ID.")
}

func TestRatingService(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	caller := svc.register(t, "rater")
	artistID := svc.seedCatalog(t, caller)
	var songIDs []int64
	for _, name := range []string{"A", "B"} {
		song, err := svc.songs.Create(ctx, caller, SongInput{
			Name: name, Year: 2000, ArtistID: artistID, GenreIDs: []int64{1},
			Sources: []SourceInput{source("https://x/"+name, true)},
		})
		if err != nil {
			t.Fatalf("Create song failed: %v", err)
		}
		songIDs = append(songIDs, song.ID)
	}

	first, err := svc.ratings.Create(ctx, caller, RatingInput{Rating: 4, Review: "good", SongID: songIDs[0]})
	if err != nil {
		t.Fatalf("Create rating failed: %v", err)
	}
	if first.Rater == nil || first.Rater.Username != "rater" {
		t.Errorf("Expected hydrated rater, got %+v", first.Rater)
	}

	_, err = svc.ratings.Create(ctx, caller, RatingInput{Rating: 2, Review: "again", SongID: songIDs[0]})
	assertAppError(t, err, ErrInvalid, "User has already rated that song.")

	_, err = svc.ratings.Create(ctx, caller, RatingInput{Rating: 6, Review: "great", SongID: songIDs[1]})
	assertAppError(t, err, ErrInvalid, "Ensure this value is less than or equal to 5.")

	_, err = svc.ratings.Create(ctx, caller, RatingInput{Rating: 3, Review: "x", SongID: 99})
	assertAppError(t, err, ErrInvalid, "The song id 99 does not match an existing song.")

	second, err := svc.ratings.Create(ctx, caller, RatingInput{Rating: 2, Review: "meh", SongID: songIDs[1]})
	if err != nil {
		t.Fatalf("Create rating failed: %v", err)
	}

	_, err = svc.ratings.Update(ctx, caller, second.ID, RatingInput{Rating: 2, Review: "meh", SongID: songIDs[0]})
	assertAppError(t, err, ErrInvalid, "User has already rated that song.")

	updated, err := svc.ratings.Update(ctx, caller, second.ID, RatingInput{Rating: 5, Review: "grew on me", SongID: songIDs[1]})
	if err != nil {
		t.Fatalf("Update rating failed: %v", err)
	}
	if updated.Rating != 5 {
		t.Errorf("Expected rating 5, got %d", updated.Rating)
	}

	ratings, err := svc.ratings.List(ctx, RatingQuery{OrderBy: "rating", Desc: true})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(ratings) != 2 || ratings[0].ID != second.ID {
		t.Errorf("Expected highest rating first, got %+v", ratings)
	}

	_, err = svc.ratings.List(ctx, RatingQuery{OrderBy: "bogus"})
	assertAppError(t, err, ErrInvalid, "")
}

func TestSearchAndStats(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	caller := svc.register(t, "searcher")
	artistID := svc.seedCatalog(t, caller)
	if _, err := svc.songs.Create(ctx, caller, SongInput{
		Name: "Magnetic Song", Year: 2000, ArtistID: artistID, GenreIDs: []int64{1},
		Sources: []SourceInput{source("https://x/1", true)},
	}); err != nil {
		t.Fatalf("Create song failed: %v", err)
	}
	if _, err := svc.lists.Create(ctx, caller, ListInput{Name: "Not matching", Description: "d", Songs: []ListSongInput{}}); err != nil {
		t.Fatalf("Create list failed: %v", err)
	}

	res, err := svc.search.Search(ctx, caller, "MAGNETIC")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(res.Artists) != 1 || len(res.Songs) != 1 || len(res.Lists) != 0 {
		t.Errorf("Unexpected search results: %d artists, %d songs, %d lists", len(res.Artists), len(res.Songs), len(res.Lists))
	}

	empty, err := svc.search.Search(ctx, caller, "  ")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(empty.Artists)+len(empty.Songs)+len(empty.Lists) != 0 {
		t.Error("Expected empty query to match nothing")
	}

	stats, err := svc.stats.Get(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	want := domain.Stats{Users: 1, Artists: 1, Songs: 1, Lists: 1}
	if *stats != want {
		t.Errorf("Expected %+v, got %+v", want, *stats)
	}

	profile, err := svc.raters.Get(ctx, caller.ID)
	if err != nil {
		t.Fatalf("Get rater failed: %v", err)
	}
	if profile.Username != "searcher" {
		t.Errorf("Expected username searcher, got %s", profile.Username)
	}
	_, err = svc.raters.Get(ctx, 999)
	assertAppError(t, err, ErrNotFound, "No rater was found with that ID.")
	if _, err := svc.artists.Create(ctx, caller, ArtistInput{Name: "Émilie Simon", Description: "French songwriter.", FoundedYear: 1997}); err != nil {
		t.Fatalf("Create artist failed: %v", err)
	}
	for _, q := range []string{"Émilie", "émilie", "ÉMILIE"} {
		res, err := svc.search.Search(ctx, caller, q)
		if err != nil {
			t.Fatalf("Search(%q) failed: %v", q, err)
		}
		if len(res.Artists) != 1 || res.Artists[0].Name != "Émilie Simon" {
			t.Errorf("Search(%q) returned %d artists, want Émilie Simon", q, len(res.Artists))
		}
	}
}
