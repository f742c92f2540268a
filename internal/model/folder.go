package model

import "time"

type Folder struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	ParentID    *string   `json:"parent_id"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// FolderPath derives a folder's path from its parent's path.
func FolderPath(parent *Folder, name string) string {
	if parent == nil || parent.Path == "" {
		return name
	}
	return parent.Path + "/" + name
}
