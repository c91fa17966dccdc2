package dto

import (
	"errors"
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/ratemymusic/rmm-api/internal/domain"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Field: "page", Message: "must be an integer"}
	want := "Query parameter `page` must be an integer."
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestValidationError_ToMap(t *testing.T) {
	err := ValidationError{Field: "page", Message: "must be an integer"}
	m := err.ToMap()
	if m["page"] != "must be an integer" {
		t.Errorf("ToMap() = %v, want {page: must be an integer}", m)
	}
}

func TestQuery_Int(t *testing.T) {
	tests := []struct {
		want    *int
		name    string
		raw     string
		wantErr bool
	}{
		{name: "absent", raw: "", want: nil},
		{name: "valid", raw: "1990", want: intPtr(1990)},
		{name: "padded", raw: " 42 ", want: intPtr(42)},
		{name: "negative", raw: "-5", want: intPtr(-5)},
		{name: "not a number", raw: "nineteen", wantErr: true},
		{name: "float", raw: "1.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			if tt.raw != "" {
				values.Set("startYear", tt.raw)
			}
			q := NewQuery(values)
			got := q.Int("startYear")
			if (q.Err() != nil) != tt.wantErr {
				t.Fatalf("Err() = %v, wantErr %v", q.Err(), tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Int() = %v, want %v", deref(got), deref(tt.want))
			}
		})
	}
}

func TestQuery_IDList(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []int64
		wantErr bool
	}{
		{name: "absent", raw: "", want: nil},
		{name: "single", raw: "3", want: []int64{3}},
		{name: "several", raw: "3,1,2", want: []int64{3, 1, 2}},
		{name: "spaces and blanks", raw: " 3, ,4,", want: []int64{3, 4}},
		{name: "zero", raw: "0", wantErr: true},
		{name: "word", raw: "1,rock", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQuery(url.Values{"genres": {tt.raw}})
			got := q.IDList("genres")
			if (q.Err() != nil) != tt.wantErr {
				t.Fatalf("Err() = %v, wantErr %v", q.Err(), tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("IDList() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuery_Desc(t *testing.T) {
	tests := []struct {
		raw     string
		want    bool
		wantErr bool
	}{
		{raw: "", want: false},
		{raw: "asc", want: false},
		{raw: "desc", want: true},
		{raw: "DESC", want: true},
		{raw: "sideways", wantErr: true},
	}

	for _, tt := range tests {
		q := NewQuery(url.Values{"direction": {tt.raw}})
		got := q.Desc()
		if (q.Err() != nil) != tt.wantErr {
			t.Errorf("direction=%q: Err() = %v, wantErr %v", tt.raw, q.Err(), tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("direction=%q: Desc() = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestQuery_Paging(t *testing.T) {
	tests := []struct {
		values   url.Values
		name     string
		page     int
		pageSize int
		wantErr  bool
	}{
		{name: "not requested", values: url.Values{}, page: 0, pageSize: 0},
		{name: "page size without page", values: url.Values{"pageSize": {"5"}}, page: 0, pageSize: 0},
		{name: "default size", values: url.Values{"page": {"2"}}, page: 2, pageSize: 10},
		{name: "explicit size", values: url.Values{"page": {"3"}, "pageSize": {"25"}}, page: 3, pageSize: 25},
		{name: "page zero", values: url.Values{"page": {"0"}}, wantErr: true},
		{name: "size too large", values: url.Values{"page": {"1"}, "pageSize": {"1000"}}, wantErr: true},
		{name: "malformed page", values: url.Values{"page": {"first"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQuery(tt.values)
			page, size := q.Paging()
			if (q.Err() != nil) != tt.wantErr {
				t.Fatalf("Err() = %v, wantErr %v", q.Err(), tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if page != tt.page || size != tt.pageSize {
				t.Errorf("Paging() = (%d, %d), want (%d, %d)", page, size, tt.page, tt.pageSize)
			}
		})
	}
}

func TestQuery_KeepsFirstError(t *testing.T) {
	q := NewQuery(url.Values{"startYear": {"x"}, "endYear": {"y"}})
	q.Int("startYear")
	q.Int("endYear")

	var verr *ValidationError
	if !errors.As(q.Err(), &verr) {
		t.Fatalf("Err() = %v, want *ValidationError", q.Err())
	}
	if verr.Field != "startYear" {
		t.Errorf("Field = %q, want startYear", verr.Field)
	}
}

func TestParseID(t *testing.T) {
	if id, ok := ParseID("12"); !ok || id != 12 {
		t.Errorf("ParseID(12) = (%d, %v)", id, ok)
	}
	for _, raw := range []string{"", "0", "-1", "abc", "1.0"} {
		if _, ok := ParseID(raw); ok {
			t.Errorf("ParseID(%q) should fail", raw)
		}
	}
}

func TestMissingKeys(t *testing.T) {
	body, err := ParseBody([]byte(`{"name": "Loveless", "description": null}`))
	if err != nil {
		t.Fatalf("ParseBody() error = %v", err)
	}

	missing := MissingKeys(body, []string{"name", "songs", "description", "founded_year"})
	want := []string{"songs", "founded_year"}
	if !reflect.DeepEqual(missing, want) {
		t.Errorf("MissingKeys() = %v, want %v", missing, want)
	}

	if got := MissingKeysMessage(missing); got != "Request body is missing the following required properties: songs, founded_year." {
		t.Errorf("MissingKeysMessage() = %q", got)
	}
	if got := MissingFieldMessage("password"); got != "Field `password` is required." {
		t.Errorf("MissingFieldMessage() = %q", got)
	}
}

func TestParseBody_RejectsNonObjects(t *testing.T) {
	for _, raw := range []string{"", "[]", "42", `"name"`, "{broken"} {
		_, err := ParseBody([]byte(raw))
		var bodyErr *BodyError
		if !errors.As(err, &bodyErr) {
			t.Errorf("ParseBody(%q) error = %v, want *BodyError", raw, err)
		}
	}
}

func TestBody_Decode(t *testing.T) {
	body, err := ParseBody([]byte(`{"name": "Only Shallow", "year": "nineteen"}`))
	if err != nil {
		t.Fatalf("ParseBody() error = %v", err)
	}

	var dst struct {
		Name string `json:"name"`
		Year int    `json:"year"`
	}
	err = body.Decode(&dst)
	var bodyErr *BodyError
	if !errors.As(err, &bodyErr) {
		t.Fatalf("Decode() error = %v, want *BodyError", err)
	}
	if bodyErr.Message != "Property `year` has an invalid value." {
		t.Errorf("Message = %q", bodyErr.Message)
	}
}

func TestNewSongResponse(t *testing.T) {
	avg := 4.5
	song := &domain.Song{
		ID:         7,
		Name:       "Sometimes",
		Year:       1991,
		ArtistID:   2,
		ArtistName: "My Bloody Valentine",
		AvgRating:  &avg,
		CreatedAt:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Creator:    &domain.RaterProfile{ID: 3, UserID: 4, Username: "kevin", Bio: "guitar"},
		Genres:     []domain.Genre{{ID: 1, Name: "Shoegaze"}},
		Sources:    []domain.SongSource{{ID: 9, URL: "https://example.com/s", Service: "Bandcamp", IsPrimary: true}},
	}

	resp := NewSongResponse(song)
	if resp.Artist.Name != "My Bloody Valentine" || resp.Artist.ID != 2 {
		t.Errorf("Artist = %+v", resp.Artist)
	}
	if resp.CreatedAt != "2024-03-01T12:00:00Z" {
		t.Errorf("CreatedAt = %q", resp.CreatedAt)
	}
	if resp.Creator == nil || resp.Creator.User.Username != "kevin" || resp.Creator.User.ID != 4 {
		t.Errorf("Creator = %+v", resp.Creator)
	}
	if len(resp.Genres) != 1 || len(resp.Sources) != 1 || !resp.Sources[0].IsPrimary {
		t.Errorf("Genres = %+v, Sources = %+v", resp.Genres, resp.Sources)
	}

	empty := NewSongResponse(&domain.Song{ID: 1})
	if empty.Genres == nil || empty.Sources == nil {
		t.Error("genres and sources should render as empty arrays")
	}
	if empty.Creator != nil {
		t.Error("missing creator should render as null")
	}
}

func TestNewListResponse(t *testing.T) {
	list := &domain.List{
		ID:       5,
		Name:     "Dream pop",
		FavCount: 2,
		Songs: []domain.ListSong{
			{ID: 11, SongID: 7, Description: "opener", Song: &domain.Song{ID: 7, Name: "Space Song"}},
		},
	}

	resp := NewListResponse(list)
	if resp.ID != 5 || resp.FavCount != 2 {
		t.Errorf("list fields = %+v", resp.SimpleListResponse)
	}
	if len(resp.Songs) != 1 || resp.Songs[0].Song == nil || resp.Songs[0].Song.Name != "Space Song" {
		t.Errorf("Songs = %+v", resp.Songs)
	}
}

func intPtr(i int) *int {
	return &i
}

func deref(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
