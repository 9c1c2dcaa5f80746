package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apierr "github.com/davecthomas/ghdeps/pkg/errors"
)

// Request describes one logical query against the API. Query parameters
// are attached to the first page only; later pages follow the
// fully-qualified next link verbatim, which already encodes them. A
// Request is immutable per call.
type Request struct {
	URL        string
	Params     url.Values
	SinglePage bool
}

// Page is the raw JSON body of one successful response: either a list of
// items or a singleton object.
type Page []byte

// Fetch runs one logical request across however many pages the API serves.
//
// The returned slice always holds every page collected before the loop
// ended, oldest first. A nil error means the loop terminated normally:
// an empty page, a missing next link, or single-page mode. A non-nil
// error carries the reason the loop stopped early — INVALID_REQUEST for a
// 422, RETRIES_EXHAUSTED when the backoff budget ran out, NETWORK_ERROR
// for unrecovered transport failures. One bad repository must not abort a
// batch, so callers log the error and keep the partial pages.
func (c *Client) Fetch(ctx context.Context, req Request) ([]Page, error) {
	pageURL, err := c.firstPageURL(req)
	if err != nil {
		return nil, apierr.Wrap(apierr.ErrCodeInvalidInput, err, "build request url %q", req.URL)
	}

	var pages []Page
	for {
		resp, err := c.get(ctx, pageURL)
		resp, err = c.recover(ctx, pageURL, resp, err)
		if err != nil {
			c.logger.Error("request failed after retries", "url", pageURL, "error", err)
			return pages, apierr.Wrap(apierr.ErrCodeNetwork, err, "request %s", pageURL)
		}

		if resp.StatusCode != http.StatusOK {
			return pages, c.classifyFailure(ctx, pageURL, resp)
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return pages, apierr.Wrap(apierr.ErrCodeNetwork, readErr, "read response from %s", pageURL)
		}

		// An empty page is the normal end-of-data signal, not an error.
		if emptyPage(body) {
			return pages, nil
		}
		pages = append(pages, Page(body))
		c.metrics.IncPages()

		next := nextPageURL(resp.Header)
		if req.SinglePage || next == "" {
			return pages, nil
		}
		pageURL = next
	}
}

// classifyFailure turns the final non-200 response of a logical request
// into a coded error. A 422 means the query itself was rejected and was
// never retried; anything else arrives here with its retry budget spent.
func (c *Client) classifyFailure(ctx context.Context, pageURL string, resp *http.Response) error {
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnprocessableEntity {
		msg, detail := decodeAPIError(resp.Body)
		c.logger.Error("skipping unprocessable request",
			"url", pageURL, "message", msg, "detail", detail)
		return apierr.New(apierr.ErrCodeInvalidRequest, "unprocessable request %s: %s", pageURL, msg)
	}

	// A final 403 may still publish a reset time worth respecting before
	// the next logical request starts.
	c.gate.Observe(ctx, resp)
	c.logger.Error("retries exhausted, giving up", "url", pageURL, "status", resp.StatusCode)
	return apierr.New(apierr.ErrCodeRetriesExhausted, "gave up on %s with status %d", pageURL, resp.StatusCode)
}

// retryState carries what one failed attempt hands to the next: the
// position in the backoff ladder and the redirect target, if any. Each
// iteration derives a new value instead of mutating shared variables, so
// the attempt→delay→redirect→cooldown→re-request machine stays auditable.
type retryState struct {
	attempt  int
	redirect string
}

// observe captures the redirect target a failed response may carry. The
// target applies to retries of this logical request only.
func (s retryState) observe(resp *http.Response) retryState {
	next := s
	if resp != nil {
		if loc := resp.Header.Get("Location"); loc != "" {
			next.redirect = loc
		}
	}
	return next
}

// target returns the URL the next retry should hit.
func (s retryState) target(original string) string {
	if s.redirect != "" {
		return s.redirect
	}
	return original
}

// recover decides whether a failed attempt is retryable and, if so, walks
// the backoff ladder until a 200 arrives or the budget runs out. Transport
// failures, 202 and 403 are retryable; every other status is handed
// straight back for classification so a 422 never consumes retry budget.
// The last response (or transport error) is returned for the caller to
// classify.
func (c *Client) recover(ctx context.Context, originalURL string, resp *http.Response, reqErr error) (*http.Response, error) {
	if reqErr == nil {
		switch resp.StatusCode {
		case http.StatusAccepted, http.StatusForbidden:
			// retryable, fall through to the ladder
		default:
			return resp, nil
		}
	}

	state := retryState{}
	last, lastErr := resp, reqErr
	for {
		delay, ok := c.backoff.Delay(state.attempt, retryAfterHint(last))
		if !ok {
			return last, lastErr
		}
		state = state.observe(last)

		if err := c.sleep(ctx, delay); err != nil {
			return last, err
		}
		// A 403 may demand waiting out the quota window on top of the
		// scheduled delay.
		c.gate.Observe(ctx, last)

		c.logger.Debug("retrying request",
			"url", state.target(originalURL),
			"attempt", state.attempt+1,
			"delay", delay)
		c.metrics.IncRetries()

		next, err := c.get(ctx, state.target(originalURL))
		state.attempt++
		if err != nil {
			if ctx.Err() != nil {
				return last, ctx.Err()
			}
			lastErr = err
			continue
		}
		if last != nil {
			last.Body.Close()
		}
		last, lastErr = next, nil
		if next.StatusCode == http.StatusOK {
			return next, nil
		}
		c.logger.Debug("retry still failing", "url", state.target(originalURL), "status", next.StatusCode)
	}
}

// firstPageURL merges the caller's parameters into the request URL and
// injects the default page size when the caller omitted one.
func (c *Client) firstPageURL(req Request) (string, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for key, values := range req.Params {
		q.Del(key)
		for _, v := range values {
			q.Add(key, v)
		}
	}
	if q.Get("per_page") == "" {
		q.Set("per_page", strconv.Itoa(c.perPage))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// retryAfterHint reads the server's explicit wait instruction, 0 if absent.
func retryAfterHint(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	secs, err := strconv.Atoi(resp.Header.Get(headerRetryAfter))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// emptyPage reports whether a 200 body carries no items.
func emptyPage(body []byte) bool {
	switch strings.TrimSpace(string(body)) {
	case "", "null", "[]", "{}":
		return true
	}
	return false
}

// apiError is the structured payload GitHub attaches to 422 responses.
type apiError struct {
	Message string `json:"message"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// decodeAPIError extracts the server's message and first detail line.
func decodeAPIError(r io.Reader) (string, string) {
	var e apiError
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return "", ""
	}
	if len(e.Errors) > 0 {
		return e.Message, e.Errors[0].Message
	}
	return e.Message, ""
}
