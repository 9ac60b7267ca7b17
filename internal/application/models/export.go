package models

// ExportFile is a rendered, unredacted export ready to be sent to the owner.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
