package fields

import (
	"fmt"
	"slices"

	"github.com/bisegni/dumpscan/pkg/parser"
)

// PageType is categorylinks.cl_type. Unlike the other enumerations it is a
// closed set.
type PageType string

const (
	PageTypePage   PageType = "page"
	PageTypeSubcat PageType = "subcat"
	PageTypeFile   PageType = "file"
)

// ParsePageType rejects anything but page, subcat and file.
func ParsePageType(v parser.Value) (PageType, error) {
	t, err := Text[PageType](v)
	if err != nil {
		return "", err
	}
	switch t {
	case PageTypePage, PageTypeSubcat, PageTypeFile:
		return t, nil
	}
	return "", &ConversionError{Reason: ReasonEnum, Detail: fmt.Sprintf("page type %q", string(t))}
}

// The remaining enumerations are open: MediaWiki extensions add values, so
// unknown strings are kept as-is and Known reports whether a value is one of
// the core ones.

type ContentModel string

const (
	ContentModelWikitext     ContentModel = "wikitext"
	ContentModelScribunto    ContentModel = "Scribunto"
	ContentModelText         ContentModel = "text"
	ContentModelCSS          ContentModel = "css"
	ContentModelSanitizedCSS ContentModel = "sanitized-css"
	ContentModelJavaScript   ContentModel = "javascript"
	ContentModelJSON         ContentModel = "json"
)

func (c ContentModel) Known() bool {
	return slices.Contains([]ContentModel{
		ContentModelWikitext, ContentModelScribunto, ContentModelText, ContentModelCSS,
		ContentModelSanitizedCSS, ContentModelJavaScript, ContentModelJSON,
	}, c)
}

// PageAction is the action a page restriction applies to.
type PageAction string

const (
	PageActionEdit   PageAction = "edit"
	PageActionMove   PageAction = "move"
	PageActionReply  PageAction = "reply"
	PageActionUpload PageAction = "upload"
	PageActionAll    PageAction = "all"
)

func (a PageAction) Known() bool {
	return slices.Contains([]PageAction{
		PageActionEdit, PageActionMove, PageActionReply, PageActionUpload, PageActionAll,
	}, a)
}

// ProtectionLevel is the group required to perform a protected action. The
// empty level means no protection.
type ProtectionLevel string

const (
	ProtectionNone              ProtectionLevel = ""
	ProtectionAutoconfirmed     ProtectionLevel = "autoconfirmed"
	ProtectionExtendedConfirmed ProtectionLevel = "extendedconfirmed"
	ProtectionSysop             ProtectionLevel = "sysop"
	ProtectionTemplateEditor    ProtectionLevel = "templateeditor"
	ProtectionEditProtected     ProtectionLevel = "editprotected"
	ProtectionEditSemiProtected ProtectionLevel = "editsemiprotected"
)

func (l ProtectionLevel) Known() bool {
	return slices.Contains([]ProtectionLevel{
		ProtectionNone, ProtectionAutoconfirmed, ProtectionExtendedConfirmed, ProtectionSysop,
		ProtectionTemplateEditor, ProtectionEditProtected, ProtectionEditSemiProtected,
	}, l)
}

// MediaType is image.img_media_type.
type MediaType string

const (
	MediaTypeUnknown    MediaType = "UNKNOWN"
	MediaTypeBitmap     MediaType = "BITMAP"
	MediaTypeDrawing    MediaType = "DRAWING"
	MediaTypeAudio      MediaType = "AUDIO"
	MediaTypeVideo      MediaType = "VIDEO"
	MediaTypeMultimedia MediaType = "MULTIMEDIA"
	MediaTypeOffice     MediaType = "OFFICE"
	MediaTypeText       MediaType = "TEXT"
	MediaTypeExecutable MediaType = "EXECUTABLE"
	MediaTypeArchive    MediaType = "ARCHIVE"
	MediaType3D         MediaType = "3D"
)

func (m MediaType) Known() bool {
	return slices.Contains([]MediaType{
		MediaTypeUnknown, MediaTypeBitmap, MediaTypeDrawing, MediaTypeAudio, MediaTypeVideo,
		MediaTypeMultimedia, MediaTypeOffice, MediaTypeText, MediaTypeExecutable,
		MediaTypeArchive, MediaType3D,
	}, m)
}

// MajorMime is image.img_major_mime.
type MajorMime string

const (
	MajorMimeUnknown     MajorMime = "unknown"
	MajorMimeApplication MajorMime = "application"
	MajorMimeAudio       MajorMime = "audio"
	MajorMimeImage       MajorMime = "image"
	MajorMimeText        MajorMime = "text"
	MajorMimeVideo       MajorMime = "video"
	MajorMimeMessage     MajorMime = "message"
	MajorMimeModel       MajorMime = "model"
	MajorMimeMultipart   MajorMime = "multipart"
)

func (m MajorMime) Known() bool {
	return slices.Contains([]MajorMime{
		MajorMimeUnknown, MajorMimeApplication, MajorMimeAudio, MajorMimeImage, MajorMimeText,
		MajorMimeVideo, MajorMimeMessage, MajorMimeModel, MajorMimeMultipart,
	}, m)
}
