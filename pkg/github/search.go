package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	apierr "github.com/davecthomas/ghdeps/pkg/errors"
)

// SearchRepos returns every repository in org whose primary language
// matches, flattening the paginated search response. Partial results are
// returned alongside the error when the engine gave up mid-query.
func (c *Client) SearchRepos(ctx context.Context, org, language string) ([]Repo, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("org:%s language:%s", org, language))

	pages, err := c.Fetch(ctx, Request{URL: c.baseURL + "/search/repositories", Params: params})

	var repos []Repo
	for _, page := range pages {
		var sp searchPage
		if uerr := json.Unmarshal(page, &sp); uerr != nil {
			return repos, apierr.Wrap(apierr.ErrCodeInternal, uerr, "decode search page")
		}
		repos = append(repos, sp.Items...)
	}
	return repos, err
}

// MostRecentCommit returns the newest commit of the repository, or nil
// when it has none reachable from the default branch.
func (c *Client) MostRecentCommit(ctx context.Context, fullName string) (*Commit, error) {
	params := url.Values{}
	params.Set("per_page", "1")

	pages, err := c.Fetch(ctx, Request{
		URL:        fmt.Sprintf("%s/repos/%s/commits", c.baseURL, fullName),
		Params:     params,
		SinglePage: true,
	})
	if len(pages) == 0 {
		return nil, err
	}

	var commits []commitResponse
	if uerr := json.Unmarshal(pages[0], &commits); uerr != nil {
		return nil, apierr.Wrap(apierr.ErrCodeInternal, uerr, "decode commits for %s", fullName)
	}
	if len(commits) == 0 {
		return nil, nil
	}
	first := commits[0]
	return &Commit{
		SHA:    first.SHA,
		Author: first.Commit.Author.Name,
		Date:   first.Commit.Author.Date,
	}, nil
}

// ListDirectory returns the entries at path inside the repository, in the
// order the API lists them. Path "" is the repository root. Listings are
// cached when the client carries a cache.
func (c *Client) ListDirectory(ctx context.Context, fullName, path string) ([]TreeEntry, error) {
	key := "contents:" + fullName + ":" + path
	if data, ok, _ := c.cache.Get(ctx, key); ok {
		var entries []TreeEntry
		if err := json.Unmarshal(data, &entries); err == nil {
			return entries, nil
		}
	}

	pages, err := c.Fetch(ctx, Request{URL: c.contentsURL(fullName, path), SinglePage: true})
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, nil
	}

	var items []contentItem
	if uerr := json.Unmarshal(pages[0], &items); uerr != nil {
		return nil, apierr.Wrap(apierr.ErrCodeInternal, uerr, "decode listing of %s in %s", path, fullName)
	}

	entries := make([]TreeEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, TreeEntry{Name: item.Name, Path: item.Path, Kind: item.Type})
	}
	if data, merr := json.Marshal(entries); merr == nil {
		_ = c.cache.Set(ctx, key, data, c.cacheTTL)
	}
	return entries, nil
}

// FetchFile retrieves one file's contents, decoded from the base64 payload
// the contents API wraps it in.
func (c *Client) FetchFile(ctx context.Context, fullName, path string) ([]byte, error) {
	key := "file:" + fullName + ":" + path
	if data, ok, _ := c.cache.Get(ctx, key); ok {
		return data, nil
	}

	pages, err := c.Fetch(ctx, Request{URL: c.contentsURL(fullName, path), SinglePage: true})
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, apierr.New(apierr.ErrCodeNotFound, "file %s not found in %s", path, fullName)
	}

	var file contentItem
	if uerr := json.Unmarshal(pages[0], &file); uerr != nil {
		return nil, apierr.Wrap(apierr.ErrCodeInternal, uerr, "decode file response for %s", path)
	}
	raw, derr := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
	if derr != nil {
		return nil, apierr.Wrap(apierr.ErrCodeInternal, derr, "decode content of %s", path)
	}

	_ = c.cache.Set(ctx, key, raw, c.cacheTTL)
	return raw, nil
}

func (c *Client) contentsURL(fullName, path string) string {
	return fmt.Sprintf("%s/repos/%s/contents/%s", c.baseURL, fullName, path)
}
