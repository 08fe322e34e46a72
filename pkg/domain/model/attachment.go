package model

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AttachmentID identifies attachment metadata inside its parent initiative
type AttachmentID string

func NewAttachmentID() AttachmentID {
	return AttachmentID(uuid.New().String())
}

func (id AttachmentID) String() string {
	return string(id)
}

// Attachment is the metadata of a file stored in blob storage. The blob at
// StoragePath and this record are created and deleted together.
type Attachment struct {
	ID           AttachmentID
	InitiativeID InitiativeID
	FileName     string
	URL          string
	StoragePath  string
	FileType     string
	Size         int64
	UploadedBy   UserID
	CreatedAt    time.Time
}

// AttachmentPath builds the blob path initiatives/{initiativeId}/{id}-{fileName}.
// Directory components in fileName are dropped.
func AttachmentPath(initiativeID InitiativeID, id AttachmentID, fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" {
		base = "file"
	}
	return fmt.Sprintf("initiatives/%s/%s-%s", initiativeID, id, base)
}
