package modelroute

import "strings"

// Attachment kinds derived from file media types.
const (
	AttachmentImage = "image"
	AttachmentAudio = "audio"
	AttachmentVideo = "video"
	AttachmentPDF   = "pdf"
	AttachmentText  = "text"
	AttachmentFile  = "file"
)

// AttachmentKind collapses a media type into an attachment kind tag.
// Parameters and case are ignored; unrecognized types map to AttachmentFile.
func AttachmentKind(mediaType string) string {
	mt, _, _ := strings.Cut(mediaType, ";")
	mt = strings.ToLower(strings.TrimSpace(mt))

	if mt == "application/pdf" {
		return AttachmentPDF
	}

	major, _, _ := strings.Cut(mt, "/")
	switch major {
	case "image":
		return AttachmentImage
	case "audio":
		return AttachmentAudio
	case "video":
		return AttachmentVideo
	case "text":
		return AttachmentText
	default:
		return AttachmentFile
	}
}

// AttachmentTypes returns the distinct attachment kinds of all file parts,
// in order of first appearance.
func AttachmentTypes(messages []Message) []string {
	kinds := []string{}
	seen := make(map[string]bool)
	for _, m := range messages {
		for _, p := range m.Parts {
			p, _ := partValue(p)
			f, ok := p.(FilePart)
			if !ok {
				continue
			}
			k := AttachmentKind(f.MediaType)
			if seen[k] {
				continue
			}
			seen[k] = true
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func hasAttachment(types []string, kind string) bool {
	for _, t := range types {
		if strings.EqualFold(t, kind) {
			return true
		}
	}
	return false
}
