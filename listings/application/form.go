package application

// Field is one submitted form value. Present distinguishes an empty submission
// from an absent one; that distinction drives partial updates and the
// image-clear branch.
type Field struct {
	Value   string
	Present bool
}

// ListingForm is the raw, uncoerced field set of a create or update submission.
type ListingForm struct {
	Title       Field
	Location    Field
	Contact     Field
	Price       Field
	Bedrooms    Field
	Bathrooms   Field
	Description Field
}

// ImageUpload is a file part submitted alongside the form fields.
type ImageUpload struct {
	Filename string
	Content  []byte
}

type CreateRequest struct {
	Fields ListingForm
	Image  *ImageUpload
}

type UpdateRequest struct {
	Fields ListingForm

	// Image is the uploaded replacement file, if any.
	Image *ImageUpload

	// ImageSubmitted reports whether the image form value was present at all,
	// even when empty. A present-but-empty value without ImageUnchanged means
	// the client cleared the image.
	ImageSubmitted bool

	// ImageUnchanged is the image_url_unchanged=true flag.
	ImageUnchanged bool
}
