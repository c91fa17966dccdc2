package app

import (
	"context"

	"github.com/ratemymusic/rmm-api/internal/domain"
	"github.com/ratemymusic/rmm-api/internal/store"
)

// The hydrate helpers attach related rows with one batched query per
// relation.

func hydrateArtists(ctx context.Context, repo *store.DB, artists []*domain.Artist) error {
	ids := make([]int64, 0, len(artists))
	for _, a := range artists {
		ids = append(ids, a.CreatorID)
	}
	creators, err := repo.RaterProfilesByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, a := range artists {
		a.Creator = creators[a.CreatorID]
	}
	return nil
}

func hydrateSongs(ctx context.Context, repo *store.DB, songs []*domain.Song) error {
	if len(songs) == 0 {
		return nil
	}
	songIDs := make([]int64, 0, len(songs))
	artistIDs := make([]int64, 0, len(songs))
	creatorIDs := make([]int64, 0, len(songs))
	for _, s := range songs {
		songIDs = append(songIDs, s.ID)
		artistIDs = append(artistIDs, s.ArtistID)
		creatorIDs = append(creatorIDs, s.CreatorID)
	}

	artists, err := repo.ArtistsByIDs(ctx, artistIDs)
	if err != nil {
		return err
	}
	creators, err := repo.RaterProfilesByIDs(ctx, creatorIDs)
	if err != nil {
		return err
	}
	genres, err := repo.GenresBySongIDs(ctx, songIDs)
	if err != nil {
		return err
	}
	sources, err := repo.SourcesBySongIDs(ctx, songIDs)
	if err != nil {
		return err
	}

	for _, s := range songs {
		s.Artist = artists[s.ArtistID]
		s.Creator = creators[s.CreatorID]
		s.Genres = genres[s.ID]
		if s.Genres == nil {
			s.Genres = []domain.Genre{}
		}
		s.Sources = sources[s.ID]
		if s.Sources == nil {
			s.Sources = []domain.SongSource{}
		}
	}
	return nil
}

func hydrateLists(ctx context.Context, repo *store.DB, lists []*domain.List) error {
	if len(lists) == 0 {
		return nil
	}
	listIDs := make([]int64, 0, len(lists))
	creatorIDs := make([]int64, 0, len(lists))
	for _, l := range lists {
		listIDs = append(listIDs, l.ID)
		creatorIDs = append(creatorIDs, l.CreatorID)
	}

	creators, err := repo.RaterProfilesByIDs(ctx, creatorIDs)
	if err != nil {
		return err
	}
	memberships, err := repo.ListSongsByListIDs(ctx, listIDs)
	if err != nil {
		return err
	}

	var songIDs []int64
	seen := make(map[int64]bool)
	for _, rows := range memberships {
		for _, m := range rows {
			if !seen[m.SongID] {
				seen[m.SongID] = true
				songIDs = append(songIDs, m.SongID)
			}
		}
	}
	songs, err := repo.SongsByIDs(ctx, songIDs)
	if err != nil {
		return err
	}
	all := make([]*domain.Song, 0, len(songs))
	for _, s := range songs {
		all = append(all, s)
	}
	if err := hydrateSongs(ctx, repo, all); err != nil {
		return err
	}

	for _, l := range lists {
		l.Creator = creators[l.CreatorID]
		rows := memberships[l.ID]
		l.Songs = make([]domain.ListSong, 0, len(rows))
		for _, m := range rows {
			m.Song = songs[m.SongID]
			l.Songs = append(l.Songs, m)
		}
	}
	return nil
}

func hydrateRatings(ctx context.Context, repo *store.DB, ratings []*domain.Rating) error {
	if len(ratings) == 0 {
		return nil
	}
	raterIDs := make([]int64, 0, len(ratings))
	songIDs := make([]int64, 0, len(ratings))
	for _, r := range ratings {
		raterIDs = append(raterIDs, r.RaterID)
		songIDs = append(songIDs, r.SongID)
	}

	raters, err := repo.RaterProfilesByIDs(ctx, raterIDs)
	if err != nil {
		return err
	}
	songs, err := repo.SongsByIDs(ctx, songIDs)
	if err != nil {
		return err
	}
	all := make([]*domain.Song, 0, len(songs))
	for _, s := range songs {
		all = append(all, s)
	}
	if err := hydrateSongs(ctx, repo, all); err != nil {
		return err
	}

	for _, r := range ratings {
		r.Rater = raters[r.RaterID]
		r.Song = songs[r.SongID]
	}
	return nil
}
