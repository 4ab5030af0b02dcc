package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/blackmichael/redproxy/internal/rawjson"
)

// DefaultParseWorkers bounds how many posts of one page are built
// concurrently.
const DefaultParseWorkers = 8

// ErrNoCursorRepository is returned by Crawl on a service built without a
// cursor repository.
var ErrNoCursorRepository = errors.New("no cursor repository configured")

// ServiceConfig configures a ListingService.
type ServiceConfig struct {
	Parse ParseOptions

	// Workers bounds concurrent post building per page. Zero means
	// DefaultParseWorkers.
	Workers int
}

// ListingService fetches upstream pages through a Fetcher and normalizes
// them into domain records.
type ListingService struct {
	fetcher Fetcher
	cursors CursorRepository
	logger  *slog.Logger
	opts    ParseOptions
	workers int
}

// NewListingService creates a ListingService. cursors may be nil when Crawl
// is not used.
func NewListingService(fetcher Fetcher, cursors CursorRepository, logger *slog.Logger, cfg ServiceConfig) *ListingService {
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultParseWorkers
	}
	return &ListingService{
		fetcher: fetcher,
		cursors: cursors,
		logger:  logger,
		opts:    cfg.Parse,
		workers: workers,
	}
}

// FetchPosts fetches one listing page and returns its posts in upstream
// order together with the cursor of the next page ("" when there is none).
// Retrieval failures and responses without a posts array are reported as
// *FetchError.
func (s *ListingService) FetchPosts(ctx context.Context, path string, quarantine bool) ([]Post, string, error) {
	root, err := s.fetch(ctx, path, quarantine)
	if err != nil {
		return nil, "", err
	}

	children := root.Get("data.children")
	if !children.IsArray() {
		return nil, "", &FetchError{Path: path, Msg: "no posts found"}
	}
	items := children.Array("")

	posts := make([]Post, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			posts[i] = ParsePost(item, s.opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, "", &FetchError{Path: path, Msg: "parse cancelled", Err: err}
	}

	after := root.Str("data.after")
	s.logger.Debug("fetched posts", "path", path, "count", len(posts), "after", after)
	return posts, after, nil
}

// Thread is a post with its comment tree.
type Thread struct {
	Post     Post      `json:"post"`
	Comments []Comment `json:"comments"`
}

// ThreadOptions selects how a thread's comments are built.
type ThreadOptions struct {
	Quarantine  bool
	Highlighted string
	Filters     map[string]struct{}
}

// FetchThread fetches a post page ("/r/x/comments/id.json") and builds the
// post and its comments.
func (s *ListingService) FetchThread(ctx context.Context, path string, opts ThreadOptions) (*Thread, error) {
	root, err := s.fetch(ctx, path, opts.Quarantine)
	if err != nil {
		return nil, err
	}

	raw := root.Index(0).Get("data.children.0")
	if !raw.IsObject() {
		return nil, &FetchError{Path: path, Msg: "no post found"}
	}
	post := ParsePost(raw, s.opts)

	comments := ParseComments(root.Index(1), CommentOptions{
		ParseOptions: s.opts,
		PostLink:     post.Permalink,
		PostAuthor:   post.Author.Name,
		Highlighted:  opts.Highlighted,
		Filters:      opts.Filters,
	})

	return &Thread{Post: post, Comments: comments}, nil
}

// FetchUser fetches /user/<name>/about.json.
func (s *ListingService) FetchUser(ctx context.Context, name string) (User, error) {
	path := "/user/" + name + "/about.json"
	root, err := s.fetch(ctx, path, false)
	if err != nil {
		return User{}, err
	}
	if !root.Get("data").IsObject() {
		return User{}, &FetchError{Path: path, Msg: "no user found"}
	}
	return ParseUser(root), nil
}

// FetchSubreddit fetches /r/<name>/about.json.
func (s *ListingService) FetchSubreddit(ctx context.Context, name string, quarantine bool) (Subreddit, error) {
	path := "/r/" + name + "/about.json"
	root, err := s.fetch(ctx, path, quarantine)
	if err != nil {
		return Subreddit{}, err
	}
	if !root.Get("data").IsObject() {
		return Subreddit{}, &FetchError{Path: path, Msg: "no subreddit found"}
	}
	return ParseSubreddit(root), nil
}

// Crawl pages through a listing, starting from the saved cursor, and calls
// emit with each page. The cursor is saved after every emitted page and
// forgotten once the listing is exhausted. maxPages <= 0 means no limit.
// It returns the number of pages emitted.
func (s *ListingService) Crawl(ctx context.Context, listing string, quarantine bool, maxPages int, emit func([]Post) error) (int, error) {
	if s.cursors == nil {
		return 0, ErrNoCursorRepository
	}

	cursor, err := s.cursors.GetCursor(ctx, listing)
	if err != nil {
		return 0, fmt.Errorf("get cursor: %w", err)
	}
	if cursor != "" {
		s.logger.Info("resuming crawl", "listing", listing, "cursor", cursor)
	}

	pages := 0
	for maxPages <= 0 || pages < maxPages {
		if err := ctx.Err(); err != nil {
			return pages, err
		}

		posts, next, err := s.FetchPosts(ctx, WithAfter(listing, cursor), quarantine)
		if err != nil {
			return pages, err
		}
		if err := emit(posts); err != nil {
			return pages, fmt.Errorf("emit page: %w", err)
		}
		pages++

		if next == "" {
			s.logger.Info("crawl complete", "listing", listing, "pages", pages)
			if err := s.cursors.DeleteCursor(ctx, listing); err != nil {
				return pages, fmt.Errorf("delete cursor: %w", err)
			}
			return pages, nil
		}

		if err := s.cursors.UpdateCursor(ctx, listing, next); err != nil {
			return pages, fmt.Errorf("update cursor: %w", err)
		}
		cursor = next
	}

	s.logger.Info("crawl page limit reached", "listing", listing, "pages", pages, "cursor", cursor)
	return pages, nil
}

func (s *ListingService) fetch(ctx context.Context, path string, quarantine bool) (rawjson.Node, error) {
	body, err := s.fetcher.FetchJSON(ctx, path, quarantine)
	if err != nil {
		s.logger.Error("upstream fetch failed", "path", path, "error", err)
		return rawjson.Node{}, &FetchError{Path: path, Msg: "upstream request failed", Err: err}
	}

	root, err := rawjson.Parse(body)
	if err != nil {
		return rawjson.Node{}, &FetchError{Path: path, Msg: "invalid response", Err: err}
	}
	return root, nil
}
