package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ratemymusic/rmm-api/internal/constants"
	"github.com/ratemymusic/rmm-api/internal/domain"
	"github.com/ratemymusic/rmm-api/internal/store"
)

// SearchResults holds up to SearchResultLimit matches per category.
type SearchResults struct {
	Artists []*domain.Artist
	Songs   []*domain.Song
	Lists   []*domain.List
}

type SearchService struct {
	Repo *store.DB
}

func NewSearchService(repo *store.DB) *SearchService {
	return &SearchService{Repo: repo}
}

// Search matches names case-insensitively. An empty query matches nothing.
func (s *SearchService) Search(ctx context.Context, caller *domain.RaterProfile, q string) (*SearchResults, error) {
	res := &SearchResults{
		Artists: []*domain.Artist{},
		Songs:   []*domain.Song{},
		Lists:   []*domain.List{},
	}
	term := searchTerm(q)
	if term == "" {
		return res, nil
	}

	limit := store.Page{Limit: constants.SearchResultLimit}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		artists, err := s.Repo.ListArtists(gctx, store.ArtistFilter{Query: term, Page: limit})
		if err != nil {
			return err
		}
		if err := hydrateArtists(gctx, s.Repo, artists); err != nil {
			return err
		}
		res.Artists = artists
		return nil
	})
	g.Go(func() error {
		songs, err := s.Repo.SearchSongs(gctx, term, constants.SearchResultLimit)
		if err != nil {
			return err
		}
		if err := hydrateSongs(gctx, s.Repo, songs); err != nil {
			return err
		}
		res.Songs = songs
		return nil
	})
	g.Go(func() error {
		lists, _, err := s.Repo.ListLists(gctx, store.ListFilter{ViewerID: viewerID(caller), Query: term, Page: limit})
		if err != nil {
			return err
		}
		// Search results carry list creators but not list songs.
		creatorIDs := make([]int64, 0, len(lists))
		for _, l := range lists {
			creatorIDs = append(creatorIDs, l.CreatorID)
		}
		creators, err := s.Repo.RaterProfilesByIDs(gctx, creatorIDs)
		if err != nil {
			return err
		}
		for _, l := range lists {
			l.Creator = creators[l.CreatorID]
		}
		res.Lists = lists
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
