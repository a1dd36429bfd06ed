package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client wraps HTTP calls to the animelib server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new animelib API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("server error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}

func (c *Client) do(method, path string, body, result any) error {
	var r io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal error: %w", err)
		}
		r = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{Status: resp.StatusCode, Message: string(respBody)}
		var e ErrorResponse
		if json.Unmarshal(respBody, &e) == nil && e.Error != "" {
			apiErr.Code, apiErr.Message = e.Code, e.Error
		}
		return apiErr
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func (c *Client) get(path string, result any) error {
	return c.do(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body, result any) error {
	return c.do(http.MethodPost, path, body, result)
}

func (c *Client) put(path string, body, result any) error {
	return c.do(http.MethodPut, path, body, result)
}

func (c *Client) patch(path string, body, result any) error {
	return c.do(http.MethodPatch, path, body, result)
}

func (c *Client) delete(path string, result any) error {
	return c.do(http.MethodDelete, path, nil, result)
}

// API response types (mirror server types)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type AnimeResponse struct {
	ID             int64    `json:"id"`
	Source         int64    `json:"source"`
	URL            string   `json:"url"`
	Title          string   `json:"title"`
	Author         *string  `json:"author,omitempty"`
	Artist         *string  `json:"artist,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Genre          []string `json:"genre,omitempty"`
	Status         int64    `json:"status"`
	ThumbnailURL   *string  `json:"thumbnail_url,omitempty"`
	Favorite       bool     `json:"favorite"`
	DateAdded      int64    `json:"date_added"`
	LastUpdate     int64    `json:"last_update"`
	UpdateStrategy string   `json:"update_strategy"`
	Initialized    bool     `json:"initialized"`
	EpisodeFlags   uint64   `json:"episode_flags"`
	ViewerFlags    uint64   `json:"viewer_flags"`

	Episodes EpisodeSettings `json:"episode_settings"`
	Viewer   ViewerSettings  `json:"viewer_settings"`
}

type EpisodeSettings struct {
	Unseen       string `json:"unseen"`
	Downloaded   string `json:"downloaded"`
	Bookmarked   string `json:"bookmarked"`
	Fillermarked string `json:"fillermarked"`
	Sorting      string `json:"sorting"`
	Direction    string `json:"direction"`
	Display      string `json:"display"`
}

type ViewerSettings struct {
	SkipIntroLength     int   `json:"skip_intro_length"`
	NextEpisodeToAir    int   `json:"next_episode_to_air"`
	NextEpisodeAiringAt int64 `json:"next_episode_airing_at"`
}

type ListAnimeResponse struct {
	Items  []AnimeResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type EpisodeResponse struct {
	ID             int64   `json:"id"`
	AnimeID        int64   `json:"anime_id"`
	Name           string  `json:"name"`
	URL            string  `json:"url"`
	EpisodeNumber  float64 `json:"episode_number"`
	Seen           bool    `json:"seen"`
	Bookmark       bool    `json:"bookmark"`
	Fillermark     bool    `json:"fillermark"`
	LastSecondSeen int64   `json:"last_second_seen"`
	TotalSeconds   int64   `json:"total_seconds"`
	DateUpload     int64   `json:"date_upload"`
	Scanlator      *string `json:"scanlator,omitempty"`
}

type ListEpisodesResponse struct {
	Items  []EpisodeResponse `json:"items"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

type LibrarySortResponse struct {
	Sort       string `json:"sort"`
	Categories []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Sort string `json:"sort"`
	} `json:"categories"`
}

type PreferenceResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type ServiceResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	LogoColor string `json:"logo_color"`
	LoggedIn  bool   `json:"logged_in"`
}

type DownloadResponse struct {
	EpisodeID     int64  `json:"episode_id"`
	State         string `json:"state"`
	Progress      int    `json:"progress"`
	QueuePosition int64  `json:"queue_position,omitempty"`
	Indicator     struct {
		Indeterminate bool     `json:"indeterminate"`
		Progress      float64  `json:"progress"`
		SizeLabel     string   `json:"size_label,omitempty"`
		Click         string   `json:"click,omitempty"`
		LongPress     string   `json:"long_press,omitempty"`
		Menu          []string `json:"menu,omitempty"`
	} `json:"indicator"`
}

type EventResponse struct {
	ID         int64  `json:"id"`
	EventType  string `json:"event_type"`
	EntityType string `json:"entity_type"`
	EntityID   int64  `json:"entity_id"`
	OccurredAt string `json:"occurred_at"`
}

type ListEventsResponse struct {
	Items  []EventResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type CrashLogResponse struct {
	Path string `json:"path"`
}

// AnimeListOptions narrows ListAnime.
type AnimeListOptions struct {
	Query    string
	Favorite *bool
	Limit    int
	Offset   int
}

// API methods

func (c *Client) ListAnime(opts AnimeListOptions) (*ListAnimeResponse, error) {
	params := url.Values{}
	if opts.Query != "" {
		params.Set("q", opts.Query)
	}
	if opts.Favorite != nil {
		params.Set("favorite", strconv.FormatBool(*opts.Favorite))
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		params.Set("offset", strconv.Itoa(opts.Offset))
	}
	path := "/api/v1/anime"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var resp ListAnimeResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetAnime(id int64) (*AnimeResponse, error) {
	var resp AnimeResponse
	if err := c.get(fmt.Sprintf("/api/v1/anime/%d", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SetFavorite(id int64, favorite bool) (*AnimeResponse, error) {
	var resp AnimeResponse
	body := map[string]any{"favorite": favorite}
	if err := c.patch(fmt.Sprintf("/api/v1/anime/%d", id), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListEpisodes(animeID int64) (*ListEpisodesResponse, error) {
	var resp ListEpisodesResponse
	if err := c.get(fmt.Sprintf("/api/v1/anime/%d/episodes", animeID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EpisodeMarks holds the per-episode marks to change; nil fields are kept.
type EpisodeMarks struct {
	Seen           *bool  `json:"seen,omitempty"`
	Bookmark       *bool  `json:"bookmark,omitempty"`
	Fillermark     *bool  `json:"fillermark,omitempty"`
	LastSecondSeen *int64 `json:"last_second_seen,omitempty"`
}

func (c *Client) UpdateEpisode(id int64, marks EpisodeMarks) (*EpisodeResponse, error) {
	var resp EpisodeResponse
	if err := c.patch(fmt.Sprintf("/api/v1/episodes/%d", id), marks, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetFilter sets one of the unseen, downloaded, bookmarked or fillermarked
// filters to DISABLED, ENABLED_IS or ENABLED_NOT.
func (c *Client) SetFilter(animeID int64, name, state string) (*AnimeResponse, error) {
	var resp AnimeResponse
	path := fmt.Sprintf("/api/v1/anime/%d/filters/%s", animeID, url.PathEscape(name))
	if err := c.put(path, map[string]string{"state": state}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetSorting selects a sorting, flipping the direction if it is already selected.
func (c *Client) SetSorting(animeID int64, sorting string) (*AnimeResponse, error) {
	var resp AnimeResponse
	path := fmt.Sprintf("/api/v1/anime/%d/sorting", animeID)
	if err := c.post(path, map[string]string{"sorting": sorting}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SetDisplay(animeID int64, mode string) (*AnimeResponse, error) {
	var resp AnimeResponse
	path := fmt.Sprintf("/api/v1/anime/%d/display", animeID)
	if err := c.put(path, map[string]string{"mode": mode}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SetEpisodeSettings(animeID int64, s EpisodeSettings) (*AnimeResponse, error) {
	var resp AnimeResponse
	if err := c.put(fmt.Sprintf("/api/v1/anime/%d/episode-flags", animeID), s, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResetEpisodeSettings applies the library-wide defaults to one anime.
func (c *Client) ResetEpisodeSettings(animeID int64) (*AnimeResponse, error) {
	var resp AnimeResponse
	if err := c.delete(fmt.Sprintf("/api/v1/anime/%d/episode-flags", animeID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SetSkipIntro(animeID int64, seconds int) (*AnimeResponse, error) {
	var resp AnimeResponse
	path := fmt.Sprintf("/api/v1/anime/%d/skip-intro", animeID)
	if err := c.put(path, map[string]int{"seconds": seconds}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SetAiring(animeID int64, episode int, airingAt int64) (*AnimeResponse, error) {
	var resp AnimeResponse
	path := fmt.Sprintf("/api/v1/anime/%d/airing", animeID)
	body := map[string]any{"episode": episode, "airing_at": airingAt}
	if err := c.put(path, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) LibrarySort() (*LibrarySortResponse, error) {
	var resp LibrarySortResponse
	if err := c.get("/api/v1/library/sort", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetLibrarySort sets sort ("TYPE,DIRECTION") globally or for one category.
func (c *Client) SetLibrarySort(categoryID *int64, sort string) (*LibrarySortResponse, error) {
	var resp LibrarySortResponse
	body := map[string]any{"sort": sort}
	if categoryID != nil {
		body["category_id"] = *categoryID
	}
	if err := c.put("/api/v1/library/sort", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Preferences() ([]PreferenceResponse, error) {
	var resp []PreferenceResponse
	if err := c.get("/api/v1/preferences", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Preference(key string) (*PreferenceResponse, error) {
	var resp PreferenceResponse
	if err := c.get("/api/v1/preferences/"+url.PathEscape(key), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SetPreference(key, value string) (*PreferenceResponse, error) {
	var resp PreferenceResponse
	if err := c.put("/api/v1/preferences/"+url.PathEscape(key), map[string]string{"value": value}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeletePreference(key string) error {
	return c.delete("/api/v1/preferences/"+url.PathEscape(key), nil)
}

// Services lists trackers or connections; kind is "trackers" or "connections".
func (c *Client) Services(kind string) ([]ServiceResponse, error) {
	var resp []ServiceResponse
	if err := c.get("/api/v1/"+kind, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) ServiceLogin(kind string, id int64, username, password string) (*ServiceResponse, error) {
	var resp ServiceResponse
	body := map[string]string{"username": username, "password": password}
	if err := c.post(fmt.Sprintf("/api/v1/%s/%d/login", kind, id), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ServiceLogout(kind string, id int64) (*ServiceResponse, error) {
	var resp ServiceResponse
	if err := c.post(fmt.Sprintf("/api/v1/%s/%d/logout", kind, id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Downloads() ([]DownloadResponse, error) {
	var resp []DownloadResponse
	if err := c.get("/api/v1/downloads", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Download(episodeID int64) (*DownloadResponse, error) {
	var resp DownloadResponse
	if err := c.get(fmt.Sprintf("/api/v1/episodes/%d/download", episodeID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DownloadAction applies START, START_NOW, CANCEL or DELETE to an episode.
func (c *Client) DownloadAction(episodeID int64, action string) (*DownloadResponse, error) {
	var resp DownloadResponse
	path := fmt.Sprintf("/api/v1/episodes/%d/download", episodeID)
	if err := c.post(path, map[string]string{"action": action}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Events(limit int) (*ListEventsResponse, error) {
	var resp ListEventsResponse
	if err := c.get(fmt.Sprintf("/api/v1/events?limit=%d", limit), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AnimeEvents(animeID int64) (*ListEventsResponse, error) {
	var resp ListEventsResponse
	if err := c.get(fmt.Sprintf("/api/v1/anime/%d/events", animeID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DumpCrashLogs() (*CrashLogResponse, error) {
	var resp CrashLogResponse
	if err := c.post("/api/v1/crash-logs", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
