package backend

import (
	"context"

	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

// Listing is the file listing for one path.
type Listing struct {
	Path  string           `json:"path"`
	Items []types.FileItem `json:"items"`
}

// ListFiles lists a directory. An empty path lists the root.
func (c *Client) ListFiles(ctx context.Context, path string) (*Listing, error) {
	var out Listing
	query := map[string]string{"path": path}
	if err := c.getJSON(ctx, "files.list", "/api/files/list", query, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []types.FileItem{}
	}
	return &out, nil
}

// ReadFile fetches a file's content.
func (c *Client) ReadFile(ctx context.Context, path string) (string, error) {
	var out struct {
		Content string `json:"content"`
	}
	query := map[string]string{"path": path}
	if err := c.getJSON(ctx, "files.read", "/api/files/read", query, &out); err != nil {
		return "", err
	}
	return out.Content, nil
}

type fileWriteRequest struct {
	Path    string `json:"path"`
	Content string `json:"content,omitempty"`
}

type fileWriteResponse struct {
	Success bool   `json:"success"`
	Path    string `json:"path"`
}

// WriteFile overwrites an existing file and returns the canonical path.
func (c *Client) WriteFile(ctx context.Context, path, content string) (string, error) {
	var out fileWriteResponse
	err := c.postJSON(ctx, "files.write", "/api/files/write",
		fileWriteRequest{Path: path, Content: content}, &out)
	if err != nil {
		return "", err
	}
	if out.Path == "" {
		out.Path = path
	}
	return out.Path, nil
}

// CreateFile creates a new file and returns the canonical path.
func (c *Client) CreateFile(ctx context.Context, path, content string) (string, error) {
	var out fileWriteResponse
	err := c.postJSON(ctx, "files.create", "/api/files/create",
		fileWriteRequest{Path: path, Content: content}, &out)
	if err != nil {
		return "", err
	}
	if out.Path == "" {
		out.Path = path
	}
	return out.Path, nil
}

// CreateFolder creates a directory.
func (c *Client) CreateFolder(ctx context.Context, path string) error {
	return c.postJSON(ctx, "files.folder", "/api/files/folder",
		fileWriteRequest{Path: path}, nil)
}

// DeleteFile removes a file or folder.
func (c *Client) DeleteFile(ctx context.Context, path string) error {
	return c.postJSON(ctx, "files.delete", "/api/files/delete",
		fileWriteRequest{Path: path}, nil)
}
