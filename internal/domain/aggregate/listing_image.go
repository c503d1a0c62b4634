package aggregate

// ListingImage links a stored file to a listing. At most one image per listing
// carries the primary flag.
type ListingImage struct {
	Entity
	listingID  string
	fileInfoID string
	url        string
	isPrimary  bool
}

func newListingImage(listingID string, file *FileInfo, isPrimary bool) *ListingImage {
	return &ListingImage{
		Entity:     newEntity(),
		listingID:  listingID,
		fileInfoID: file.ID(),
		url:        file.URL(),
		isPrimary:  isPrimary,
	}
}

func (i *ListingImage) setPrimary(isPrimary bool) {
	i.isPrimary = isPrimary
}

func (i *ListingImage) ListingID() string  { return i.listingID }
func (i *ListingImage) FileInfoID() string { return i.fileInfoID }
func (i *ListingImage) URL() string        { return i.url }
func (i *ListingImage) IsPrimary() bool    { return i.isPrimary }

// ListingImageState is the persistence snapshot of a ListingImage.
type ListingImageState struct {
	ID         string
	ListingID  string
	FileInfoID string
	URL        string
	IsPrimary  bool
}

// RestoreListingImage rebuilds an image from its stored state.
func RestoreListingImage(s ListingImageState) *ListingImage {
	return &ListingImage{
		Entity:     restoreEntity(s.ID),
		listingID:  s.ListingID,
		fileInfoID: s.FileInfoID,
		url:        s.URL,
		isPrimary:  s.IsPrimary,
	}
}

// State captures the image for persistence.
func (i *ListingImage) State() ListingImageState {
	return ListingImageState{
		ID:         i.id,
		ListingID:  i.listingID,
		FileInfoID: i.fileInfoID,
		URL:        i.url,
		IsPrimary:  i.isPrimary,
	}
}
