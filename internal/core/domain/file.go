package domain

// FileRef points at an uploaded file saved to local temporary storage.
// The zero value means the slot was left empty.
type FileRef struct {
	Path     string
	Filename string
	Size     int64
}

// Present reports whether the slot holds a file.
func (f FileRef) Present() bool {
	return f.Path != ""
}
