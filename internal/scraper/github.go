package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/go-github/v66/github"
	"golang.org/x/time/rate"

	"github.com/skillscout/skillscout/internal/log"
)

const (
	// DefaultRateLimit is requests per minute across the process.
	DefaultRateLimit = 30

	// maxForkPages bounds fork enumeration so very large fork networks
	// cannot drive unbounded traversal.
	maxForkPages = 10

	// searchPageSize is results per search page.
	searchPageSize = 100
)

// RepoInfo contains repository metadata.
type RepoInfo struct {
	Owner         string
	Repo          string
	FullName      string
	Description   string
	Stars         int
	Forks         int
	DefaultBranch string
	Archived      bool
	IsFork        bool
	PushedAt      time.Time
	UpdatedAt     time.Time
}

// DirEntry describes one entry of a repository directory listing.
type DirEntry struct {
	Name  string
	Path  string
	Size  int64
	IsDir bool
}

// API is the hosting-platform surface consumed by discovery strategies, the
// content fetcher and the indexer. Every call routes through the client pool
// so token accounting stays centralized.
type API interface {
	GetRepositoryInfo(ctx context.Context, owner, repo string) (*RepoInfo, error)
	GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error)
	ListDirectory(ctx context.Context, owner, repo, dir, ref string) ([]DirEntry, error)
	ListForks(ctx context.Context, owner, repo string) ([]*RepoInfo, error)
	SearchRepositories(ctx context.Context, query string, page int) ([]*RepoInfo, error)
}

// Service implements API on top of the token and client pools with a
// process-wide rate limiter in front of every call.
type Service struct {
	tokens  *TokenPool
	clients *ClientPool
	limiter *rate.Limiter
	log     *log.Logger
}

// NewService creates the API facade. rateLimit is requests per minute
// (0 = default).
func NewService(tokens *TokenPool, rateLimit int, logger *log.Logger) *Service {
	if rateLimit <= 0 {
		rateLimit = DefaultRateLimit
	}
	return &Service{
		tokens:  tokens,
		clients: NewClientPool(tokens),
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rateLimit)), rateLimit),
		log:     logger,
	}
}

func (s *Service) acquire(ctx context.Context) (*github.Client, string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, "", fmt.Errorf("rate limit wait: %w", err)
	}
	return s.clients.BestInstance()
}

// classify maps go-github errors onto the pipeline's error taxonomy: 404s
// become ErrNotFound, network/timeout failures become TransportError,
// everything else is wrapped as-is.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.Is(err, context.DeadlineExceeded) {
		return &TransportError{Op: op, Err: err}
	}

	return fmt.Errorf("%s: %w", op, err)
}

// GetRepositoryInfo fetches repository metadata.
func (s *Service) GetRepositoryInfo(ctx context.Context, owner, repo string) (*RepoInfo, error) {
	client, cred, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}

	repository, resp, err := client.Repositories.Get(ctx, owner, repo)
	s.tokens.UpdateStats(cred, resp)
	if err != nil {
		return nil, classify(fmt.Sprintf("get repository %s/%s", owner, repo), err)
	}

	return repoInfoFrom(repository), nil
}

// GetFileContent fetches decoded file content at a path. A path that resolves
// to a directory is reported as not found.
func (s *Service) GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error) {
	client, cred, err := s.acquire(ctx)
	if err != nil {
		return "", err
	}

	opts := &github.RepositoryContentGetOptions{Ref: ref}
	fileContent, dirContent, resp, err := client.Repositories.GetContents(ctx, owner, repo, path, opts)
	s.tokens.UpdateStats(cred, resp)
	op := fmt.Sprintf("get contents %s/%s/%s", owner, repo, path)
	if err != nil {
		return "", classify(op, err)
	}
	if dirContent != nil || fileContent == nil {
		return "", fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return "", fmt.Errorf("%s: decode: %w", op, err)
	}
	return content, nil
}

// ListDirectory lists the entries of a repository directory.
func (s *Service) ListDirectory(ctx context.Context, owner, repo, dir, ref string) ([]DirEntry, error) {
	client, cred, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}

	opts := &github.RepositoryContentGetOptions{Ref: ref}
	fileContent, dirContent, resp, err := client.Repositories.GetContents(ctx, owner, repo, dir, opts)
	s.tokens.UpdateStats(cred, resp)
	op := fmt.Sprintf("list directory %s/%s/%s", owner, repo, dir)
	if err != nil {
		return nil, classify(op, err)
	}
	if fileContent != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	entries := make([]DirEntry, 0, len(dirContent))
	for _, item := range dirContent {
		entries = append(entries, DirEntry{
			Name:  item.GetName(),
			Path:  item.GetPath(),
			Size:  int64(item.GetSize()),
			IsDir: item.GetType() == "dir",
		})
	}
	return entries, nil
}

// ListForks enumerates a repository's forks, bounded by maxForkPages.
func (s *Service) ListForks(ctx context.Context, owner, repo string) ([]*RepoInfo, error) {
	opts := &github.RepositoryListForksOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var forks []*RepoInfo
	for page := 0; page < maxForkPages; page++ {
		client, cred, err := s.acquire(ctx)
		if err != nil {
			return nil, err
		}

		result, resp, err := client.Repositories.ListForks(ctx, owner, repo, opts)
		s.tokens.UpdateStats(cred, resp)
		if err != nil {
			return nil, classify(fmt.Sprintf("list forks %s/%s", owner, repo), err)
		}

		for _, fork := range result {
			forks = append(forks, repoInfoFrom(fork))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return forks, nil
}

// SearchRepositories runs one page of a repository search. Pagination
// heuristics (empty page, short page, max pages) live in the topic-search
// strategy.
func (s *Service) SearchRepositories(ctx context.Context, query string, page int) ([]*RepoInfo, error) {
	client, cred, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}

	opts := &github.SearchOptions{
		Sort:  "stars",
		Order: "desc",
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: searchPageSize,
		},
	}

	result, resp, err := client.Search.Repositories(ctx, query, opts)
	s.tokens.UpdateStats(cred, resp)
	if err != nil {
		return nil, classify(fmt.Sprintf("search repositories %q page %d", query, page), err)
	}

	repos := make([]*RepoInfo, 0, len(result.Repositories))
	for _, r := range result.Repositories {
		repos = append(repos, repoInfoFrom(r))
	}
	return repos, nil
}

// SearchPageSize returns how many results a full search page holds.
func SearchPageSize() int {
	return searchPageSize
}

func repoInfoFrom(r *github.Repository) *RepoInfo {
	return &RepoInfo{
		Owner:         r.GetOwner().GetLogin(),
		Repo:          r.GetName(),
		FullName:      r.GetFullName(),
		Description:   r.GetDescription(),
		Stars:         r.GetStargazersCount(),
		Forks:         r.GetForksCount(),
		DefaultBranch: r.GetDefaultBranch(),
		Archived:      r.GetArchived(),
		IsFork:        r.GetFork(),
		PushedAt:      r.GetPushedAt().Time,
		UpdatedAt:     r.GetUpdatedAt().Time,
	}
}
