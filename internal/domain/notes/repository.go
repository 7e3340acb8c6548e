package notes

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	// ListDirectory returns the entries directly inside path, folders
	// first, excluding the directory node itself.
	ListDirectory(ctx context.Context, userID, path string) ([]File, error)
	// SearchFiles returns all note files (never folders), optionally
	// filtered by a case-insensitive substring match over name, tags
	// and path.
	SearchFiles(ctx context.Context, userID, search string) ([]File, error)
	// ListFolders returns every folder ordered by path.
	ListFolders(ctx context.Context, userID string) ([]File, error)
	GetByPath(ctx context.Context, userID, path string) (*File, error)
	GetFolder(ctx context.Context, userID, path string) (*File, error)
	GetFile(ctx context.Context, userID, path string) (*File, error)
	ListSubtree(ctx context.Context, userID, path string) ([]File, error)
	Create(ctx context.Context, file *File) error
	Update(ctx context.Context, file *File) error
	Delete(ctx context.Context, fileID string) error

	GetContent(ctx context.Context, fileID string) (*Content, error)
	SaveContent(ctx context.Context, content *Content) error
	DeleteContent(ctx context.Context, fileID string) error

	// DeleteProviderFiles removes the rows that came from the storage
	// provider (those with a URL) together with their contents. Locally
	// created notes and folders have no URL and survive.
	DeleteProviderFiles(ctx context.Context, userID string) error
}
