package aggregate

import "time"

// FileInfo describes a stored upload. It is its own aggregate; listings only
// reference it by id.
type FileInfo struct {
	AuditedEntity
	displayName string
	storedName  string
	url         string
}

// NewFileInfo records a file stored under storedName, reachable at url.
func NewFileInfo(displayName, storedName, url string) *FileInfo {
	return &FileInfo{
		AuditedEntity: newAuditedEntity(),
		displayName:   displayName,
		storedName:    storedName,
		url:           url,
	}
}

func (f *FileInfo) DisplayName() string { return f.displayName }
func (f *FileInfo) StoredName() string  { return f.storedName }
func (f *FileInfo) URL() string         { return f.url }

// FileInfoState is the persistence snapshot of a FileInfo.
type FileInfoState struct {
	ID          string
	DisplayName string
	StoredName  string
	URL         string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RestoreFileInfo rebuilds a file record from its stored state.
func RestoreFileInfo(s FileInfoState) *FileInfo {
	return &FileInfo{
		AuditedEntity: restoreAuditedEntity(s.ID, s.CreatedAt, s.UpdatedAt),
		displayName:   s.DisplayName,
		storedName:    s.StoredName,
		url:           s.URL,
	}
}

// State captures the file record for persistence.
func (f *FileInfo) State() FileInfoState {
	return FileInfoState{
		ID:          f.id,
		DisplayName: f.displayName,
		StoredName:  f.storedName,
		URL:         f.url,
		CreatedAt:   f.createdAt,
		UpdatedAt:   f.updatedAt,
	}
}
