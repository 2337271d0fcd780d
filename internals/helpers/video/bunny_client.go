// internals/helpers/video/bunny_client.go
package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client untuk Bunny Stream API (https://video.bunnycdn.com).
// Semua konfigurasi di-inject lewat struct; tidak ada baca ENV di sini.
type Client struct {
	LibraryID string
	APIKey    string
	BaseURL   string // default https://video.bunnycdn.com
	EmbedURL  string // default https://iframe.mediadelivery.net/embed
	HTTP      *http.Client
}

func NewClient(libraryID, apiKey string) *Client {
	return &Client{
		LibraryID: libraryID,
		APIKey:    apiKey,
		BaseURL:   "https://video.bunnycdn.com",
		EmbedURL:  "https://iframe.mediadelivery.net/embed",
		HTTP:      &http.Client{Timeout: 15 * time.Second},
	}
}

/* ===================== Types ===================== */

type Video struct {
	GUID                 string `json:"guid"`
	Title                string `json:"title"`
	Length               int    `json:"length"` // detik
	Status               int    `json:"status"`
	ThumbnailFileName    string `json:"thumbnailFileName"`
	DateUploaded         string `json:"dateUploaded"`
	Views                int    `json:"views"`
	AvailableResolutions string `json:"availableResolutions"`
}

type VideoList struct {
	TotalItems   int     `json:"totalItems"`
	CurrentPage  int     `json:"currentPage"`
	ItemsPerPage int     `json:"itemsPerPage"`
	Items        []Video `json:"items"`
}

// UploadTicket dikirim balik ke browser supaya bisa direct-upload (PUT) ke Bunny.
type UploadTicket struct {
	VideoID   string `json:"video_id"`
	LibraryID string `json:"library_id"`
	AccessKey string `json:"access_key"`
	UploadURL string `json:"upload_url"`
}

/* ===================== Operations ===================== */

// CreateVideo minta slot video baru; balikannya dipakai browser untuk direct upload.
func (cl *Client) CreateVideo(ctx context.Context, title string) (*UploadTicket, error) {
	if title == "" {
		title = "Untitled Lesson"
	}
	payload, _ := json.Marshal(map[string]string{"title": title})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/library/%s/videos", cl.BaseURL, cl.LibraryID), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("AccessKey", cl.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := cl.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("bunny create video: status %d", resp.StatusCode)
	}

	var v Video
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, err
	}
	return &UploadTicket{
		VideoID:   v.GUID,
		LibraryID: cl.LibraryID,
		AccessKey: cl.APIKey,
		UploadURL: fmt.Sprintf("%s/library/%s/videos/%s", cl.BaseURL, cl.LibraryID, v.GUID),
	}, nil
}

// ListVideos ambil daftar video (opsional search), urut tanggal upload.
func (cl *Client) ListVideos(ctx context.Context, search string, page, itemsPerPage int) (*VideoList, error) {
	if page <= 0 {
		page = 1
	}
	if itemsPerPage <= 0 {
		itemsPerPage = 100
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("itemsPerPage", strconv.Itoa(itemsPerPage))
	q.Set("orderBy", "date")
	if search != "" {
		q.Set("search", search)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/library/%s/videos?%s", cl.BaseURL, cl.LibraryID, q.Encode()), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("AccessKey", cl.APIKey)

	resp, err := cl.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bunny list videos: status %d", resp.StatusCode)
	}

	var list VideoList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetVideo ambil status satu video (dipakai polling status transcoding).
func (cl *Client) GetVideo(ctx context.Context, videoID string) (*Video, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/library/%s/videos/%s", cl.BaseURL, cl.LibraryID, videoID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("AccessKey", cl.APIKey)

	resp, err := cl.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("bunny video %s not found", videoID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bunny get video: status %d", resp.StatusCode)
	}

	var v Video
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// PlaybackURL membentuk URL embed player (iframe/HLS) untuk satu video.
func (cl *Client) PlaybackURL(videoID string) string {
	return fmt.Sprintf("%s/%s/%s", cl.EmbedURL, cl.LibraryID, videoID)
}
