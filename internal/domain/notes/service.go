package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"family-planner-go/pkg/logger"
)

const maxSyncDepth = 10

type Service struct {
	repo        Repository
	provider    Provider
	defaultRoot string
	log         logger.Logger
}

func NewService(repo Repository, provider Provider, defaultRoot string, log logger.Logger) *Service {
	return &Service{repo: repo, provider: provider, defaultRoot: defaultRoot, log: log}
}

func (s *Service) ListDirectory(ctx context.Context, userID, rawPath string) ([]FileInfo, error) {
	dirPath := NormalizePath(rawPath)
	files, err := s.repo.ListDirectory(ctx, userID, dirPath)
	if err != nil {
		return nil, fmt.Errorf("list directory: %w", err)
	}

	infos := make([]FileInfo, 0, len(files))
	for i := range files {
		infos = append(infos, toFileInfo(&files[i]))
	}
	return infos, nil
}

func toFileInfo(file *File) FileInfo {
	info := FileInfo{
		ID:       file.ID,
		Name:     file.Name,
		FilePath: file.FilePath,
		IsFolder: file.IsFolder,
		Tags:     SplitTags(file.Tags),
		URL:      file.URL,
	}
	if !file.CreatedTime.IsZero() {
		info.CreatedTime = file.CreatedTime.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return info
}

// ListGrouped returns every note file grouped by its top-level
// folder, with one level of subsections. Files at the root land in an
// "Uncategorized" section. An optional search narrows the files by a
// case-insensitive substring match over name, tags and path.
func (s *Service) ListGrouped(ctx context.Context, userID, search string) ([]Section, error) {
	files, err := s.repo.SearchFiles(ctx, userID, strings.TrimSpace(search))
	if err != nil {
		return nil, fmt.Errorf("search files: %w", err)
	}

	sections := make([]Section, 0)
	index := map[string]int{}
	for i := range files {
		file := &files[i]
		parts := strings.FieldsFunc(file.FilePath, func(r rune) bool { return r == '/' })

		top, topPath, sub := "Uncategorized", "/", ""
		if len(parts) > 1 {
			top = parts[0]
			topPath = "/" + top
			// Only one level of subsections.
			if len(parts) >= 3 {
				sub = parts[1]
			}
		}

		pos, ok := index[top]
		if !ok {
			pos = len(sections)
			index[top] = pos
			sections = append(sections, Section{
				Name:        top,
				Path:        topPath,
				Subsections: []Subsection{},
				Files:       []FileInfo{},
			})
		}

		info := toFileInfo(file)
		if sub == "" {
			sections[pos].Files = append(sections[pos].Files, info)
			continue
		}
		subs := sections[pos].Subsections
		found := -1
		for j := range subs {
			if subs[j].Name == sub {
				found = j
				break
			}
		}
		if found < 0 {
			found = len(subs)
			subs = append(subs, Subsection{
				Name:  sub,
				Path:  topPath + "/" + sub,
				Files: []FileInfo{},
			})
		}
		subs[found].Files = append(subs[found].Files, info)
		sections[pos].Subsections = subs
	}
	return sections, nil
}

// ListSections returns every folder in the tree, ordered by path.
func (s *Service) ListSections(ctx context.Context, userID string) ([]SectionInfo, error) {
	folders, err := s.repo.ListFolders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	sections := make([]SectionInfo, 0, len(folders))
	for _, folder := range folders {
		sections = append(sections, SectionInfo{
			ID:   folder.ID,
			Name: folder.Name,
			Path: folder.FilePath,
		})
	}
	return sections, nil
}

func (s *Service) CreateDirectory(ctx context.Context, userID, rawPath string) (*File, error) {
	dirPath := NormalizePath(rawPath)
	if dirPath == "/" {
		return nil, pathErr(ErrAlreadyExists, dirPath)
	}
	parentPath, name := SplitPath(dirPath)

	var created *File
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetFolder(ctx, userID, dirPath); err == nil {
			return pathErr(ErrAlreadyExists, dirPath)
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
		if err := requireParent(ctx, tx, userID, parentPath); err != nil {
			return err
		}

		created = &File{
			ID:       uuid.NewString(),
			UserID:   userID,
			Name:     name,
			FilePath: dirPath,
			IsFolder: true,
		}
		return tx.Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// SaveNote creates or overwrites a note file and its content in one
// transaction.
func (s *Service) SaveNote(ctx context.Context, userID string, input SaveNoteInput) (*File, bool, error) {
	filePath := NormalizePath(input.Path)
	if filePath == "/" {
		return nil, false, pathErr(ErrCannotMove, filePath)
	}
	parentPath, name := SplitPath(filePath)
	tags := JoinTags(input.Tags)
	description := strings.TrimSpace(input.Description)

	var (
		saved   *File
		updated bool
	)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := requireParent(ctx, tx, userID, parentPath); err != nil {
			return err
		}

		existing, err := tx.GetFile(ctx, userID, filePath)
		switch {
		case err == nil:
			existing.Name = name
			existing.Tags = tags
			existing.Description = description
			if err := tx.Update(ctx, existing); err != nil {
				return err
			}
			saved, updated = existing, true
		case errors.Is(err, ErrNotFound):
			saved = &File{
				ID:          uuid.NewString(),
				UserID:      userID,
				Name:        name,
				FilePath:    filePath,
				Tags:        tags,
				Description: description,
			}
			if err := tx.Create(ctx, saved); err != nil {
				return err
			}
		default:
			return err
		}

		content, err := tx.GetContent(ctx, saved.ID)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				return err
			}
			content = &Content{ID: uuid.NewString(), FileID: saved.ID}
		}
		content.Content = input.Content
		return tx.SaveContent(ctx, content)
	})
	if err != nil {
		return nil, false, err
	}
	return saved, updated, nil
}

func (s *Service) GetNote(ctx context.Context, userID, rawPath string) (*NoteData, error) {
	filePath := NormalizePath(rawPath)

	file, err := s.repo.GetFile(ctx, userID, filePath)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pathErr(ErrNotFound, filePath)
		}
		return nil, err
	}

	content, err := s.repo.GetContent(ctx, file.ID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		// Backfill empty content for files synced without a body.
		content = &Content{ID: uuid.NewString(), FileID: file.ID, Content: ""}
		if err := s.repo.SaveContent(ctx, content); err != nil {
			return nil, err
		}
	}

	return &NoteData{
		ID:          file.ID,
		Content:     content.Content,
		Tags:        SplitTags(file.Tags),
		Description: file.Description,
	}, nil
}

// Delete removes a file, or a directory together with its whole
// subtree.
func (s *Service) Delete(ctx context.Context, userID, rawPath string) error {
	targetPath := NormalizePath(rawPath)

	return s.repo.Transaction(ctx, func(tx Repository) error {
		item, err := tx.GetByPath(ctx, userID, targetPath)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return pathErr(ErrNotFound, targetPath)
			}
			return err
		}

		if item.IsFolder {
			children, err := tx.ListSubtree(ctx, userID, targetPath)
			if err != nil {
				return err
			}
			for _, child := range children {
				if err := tx.DeleteContent(ctx, child.ID); err != nil {
					return err
				}
				if err := tx.Delete(ctx, child.ID); err != nil {
					return err
				}
			}
		}

		if err := tx.DeleteContent(ctx, item.ID); err != nil {
			return err
		}
		return tx.Delete(ctx, item.ID)
	})
}

// Move relocates a file or directory. Directory moves rewrite every
// descendant path prefix.
func (s *Service) Move(ctx context.Context, userID, rawSource, rawDestination string) (string, error) {
	source := NormalizePath(rawSource)
	destination := NormalizePath(rawDestination)

	if source == "/" || destination == "/" {
		return "", pathErr(ErrCannotMove, source)
	}
	if source != destination && strings.HasPrefix(destination, source+"/") {
		return "", pathErr(ErrCannotMove, destination)
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		item, err := tx.GetByPath(ctx, userID, source)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return pathErr(ErrNotFound, source)
			}
			return err
		}

		parentPath, newName := SplitPath(destination)
		if err := requireParent(ctx, tx, userID, parentPath); err != nil {
			return err
		}
		if _, err := tx.GetByPath(ctx, userID, destination); err == nil {
			return pathErr(ErrAlreadyExists, destination)
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		if item.IsFolder {
			children, err := tx.ListSubtree(ctx, userID, source)
			if err != nil {
				return err
			}
			for i := range children {
				children[i].FilePath = destination + strings.TrimPrefix(children[i].FilePath, source)
				if err := tx.Update(ctx, &children[i]); err != nil {
					return err
				}
			}
		}

		item.FilePath = destination
		item.Name = newName
		return tx.Update(ctx, item)
	})
	if err != nil {
		return "", err
	}
	return destination, nil
}

// SyncFromProvider replaces the provider-sourced part of the user's
// tree with the remote folder rooted at rootFolderID. Locally created
// notes have no URL and are preserved, together with their contents;
// a remote file whose path collides with a preserved note is skipped.
// Note contents are not fetched, only the tree.
func (s *Service) SyncFromProvider(ctx context.Context, userID, rootFolderID string) (int, error) {
	if s.provider == nil {
		return 0, fmt.Errorf("no storage provider configured")
	}
	if rootFolderID == "" {
		rootFolderID = s.defaultRoot
	}
	if rootFolderID == "" {
		return 0, fmt.Errorf("no root folder configured")
	}

	var files []File
	visited := map[string]bool{}
	if err := s.collectRemote(ctx, rootFolderID, "", visited, 0, &files); err != nil {
		return 0, fmt.Errorf("fetch remote tree: %w", err)
	}

	synced := 0
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		synced = 0
		if err := tx.DeleteProviderFiles(ctx, userID); err != nil {
			return err
		}
		for i := range files {
			if _, err := tx.GetByPath(ctx, userID, files[i].FilePath); err == nil {
				continue
			} else if !errors.Is(err, ErrNotFound) {
				return err
			}
			files[i].UserID = userID
			if err := tx.Create(ctx, &files[i]); err != nil {
				return err
			}
			synced++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("synced note tree from provider", "user_id", userID, "files", synced)
	return synced, nil
}

func (s *Service) collectRemote(ctx context.Context, folderID, parentPath string, visited map[string]bool, depth int, out *[]File) error {
	if depth >= maxSyncDepth || visited[folderID] {
		return nil
	}
	visited[folderID] = true

	items, err := s.provider.ListFolder(ctx, folderID)
	if err != nil {
		return err
	}

	for _, item := range items {
		currentPath := parentPath + "/" + item.Name
		tags, link := ParseDescription(item.Description)

		file := File{
			ID:          item.ID,
			Name:        item.Name,
			FilePath:    currentPath,
			Tags:        JoinTags(tags),
			Description: link,
			IsFolder:    item.Folder,
			CreatedTime: item.CreatedTime,
		}
		if item.WebLink != "" {
			url := item.WebLink
			file.URL = &url
		}
		*out = append(*out, file)

		if item.Folder {
			if err := s.collectRemote(ctx, item.ID, currentPath, visited, depth+1, out); err != nil {
				return err
			}
		}
	}
	return nil
}

func requireParent(ctx context.Context, tx Repository, userID, parentPath string) error {
	if parentPath == "/" {
		return nil
	}
	if _, err := tx.GetFolder(ctx, userID, parentPath); err != nil {
		if errors.Is(err, ErrNotFound) {
			return pathErr(ErrNoParent, parentPath)
		}
		return err
	}
	return nil
}
