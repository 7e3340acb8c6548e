// Package drive talks to the Google Drive v3 REST API and adapts its
// folder listings to the notes domain's Provider interface.
package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"family-planner-go/internal/config"
	"family-planner-go/internal/domain/notes"
	"family-planner-go/pkg/logger"
)

const folderMimeType = "application/vnd.google-apps.folder"

type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	log         logger.Logger
}

func NewClient(cfg config.DriveConfig, log logger.Logger) *Client {
	return &Client{
		baseURL:     cfg.BaseURL,
		accessToken: cfg.AccessToken,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		log:         log,
	}
}

type fileResource struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MimeType    string `json:"mimeType"`
	WebViewLink string `json:"webViewLink"`
	Description string `json:"description"`
	CreatedTime string `json:"createdTime"`
}

type fileList struct {
	NextPageToken string         `json:"nextPageToken"`
	Files         []fileResource `json:"files"`
}

// ListFolder pages through the non-trashed children of a folder.
func (c *Client) ListFolder(ctx context.Context, folderID string) ([]notes.RemoteItem, error) {
	var items []notes.RemoteItem
	pageToken := ""

	for {
		page, err := c.listPage(ctx, folderID, pageToken)
		if err != nil {
			return nil, err
		}
		for _, file := range page.Files {
			item := notes.RemoteItem{
				ID:          file.ID,
				Name:        file.Name,
				Folder:      file.MimeType == folderMimeType,
				WebLink:     file.WebViewLink,
				Description: file.Description,
			}
			if file.CreatedTime != "" {
				if created, err := time.Parse(time.RFC3339, file.CreatedTime); err == nil {
					item.CreatedTime = created
				}
			}
			items = append(items, item)
		}
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	c.log.Debug("listed drive folder", "folder_id", folderID, "items", len(items))
	return items, nil
}

func (c *Client) listPage(ctx context.Context, folderID, pageToken string) (*fileList, error) {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("'%s' in parents and trashed = false", folderID))
	query.Set("fields", "nextPageToken, files(id, name, mimeType, createdTime, webViewLink, description)")
	query.Set("pageSize", "1000")
	query.Set("supportsAllDrives", "true")
	query.Set("includeItemsFromAllDrives", "true")
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build drive request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drive request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read drive response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("drive folder %s not found", folderID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("drive API status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var page fileList
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decode drive response: %w", err)
	}
	return &page, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
