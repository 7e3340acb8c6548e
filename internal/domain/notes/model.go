package notes

import (
	"path"
	"strings"
	"time"
)

// File is a node in the user's note tree. Folders and files share the
// table; folders never have content.
type File struct {
	ID          string    `gorm:"size:100;primaryKey"`
	UserID      string    `gorm:"type:uuid;index;not null"`
	Name        string    `gorm:"size:255;not null"`
	FilePath    string    `gorm:"size:500;not null"`
	URL         *string   `gorm:"size:500"`
	Tags        string    `gorm:"size:500"`
	Description string    `gorm:"size:500"`
	IsFolder    bool      `gorm:"default:false"`
	CreatedTime time.Time `gorm:"autoCreateTime"`
}

func (File) TableName() string {
	return "drive_files"
}

// Content holds the text body of a note file, one row per file.
type Content struct {
	ID          string    `gorm:"size:100;primaryKey"`
	FileID      string    `gorm:"size:100;index;not null"`
	Content     string    `gorm:"type:text;not null"`
	CreatedTime time.Time `gorm:"autoCreateTime"`
	UpdatedTime time.Time `gorm:"autoUpdateTime"`
}

func (Content) TableName() string {
	return "note_contents"
}

// NormalizePath canonicalizes a tree path: leading slash, no trailing
// slash, root stays "/".
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}
	return p
}

// SplitPath returns the parent directory and base name of a normalized
// path. The parent of a top-level entry is "/".
func SplitPath(p string) (parent, name string) {
	parent, name = path.Dir(p), path.Base(p)
	if parent == "" || parent == "." {
		parent = "/"
	}
	return parent, name
}

// SplitTags turns the stored comma-separated tag string into a slice,
// dropping empty entries.
func SplitTags(tags string) []string {
	if tags == "" {
		return []string{}
	}
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// JoinTags is the inverse of SplitTags.
func JoinTags(tags []string) string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, ",")
}

// FileInfo is the listing shape handed to transport.
type FileInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	FilePath    string   `json:"file_path"`
	IsFolder    bool     `json:"is_folder"`
	Tags        []string `json:"tags"`
	URL         *string  `json:"url"`
	CreatedTime string   `json:"created_time,omitempty"`
}

// Section is a top-level folder with its note files, grouped for the
// sectioned listing. Subsections go one level deep; files nested any
// deeper are attached to their subsection.
type Section struct {
	Name        string       `json:"name"`
	Path        string       `json:"path"`
	Subsections []Subsection `json:"subsections"`
	Files       []FileInfo   `json:"files"`
}

type Subsection struct {
	Name  string     `json:"name"`
	Path  string     `json:"path"`
	Files []FileInfo `json:"files"`
}

// SectionInfo names a folder in the tree.
type SectionInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// NoteData is a note file together with its content.
type NoteData struct {
	ID          string   `json:"id"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
}

type SaveNoteInput struct {
	Path        string
	Content     string
	Tags        []string
	Description string
}
