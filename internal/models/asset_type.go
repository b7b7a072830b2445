package models

// AssetType categorizes a discovered resource.
type AssetType string

const (
	AssetLink   AssetType = "link"
	AssetCSS    AssetType = "css"
	AssetScript AssetType = "script"
	AssetImage  AssetType = "image"
	AssetOther  AssetType = "other"
)

// TagKind identifies the HTML element a reference was found in.
type TagKind string

const (
	TagAnchor     TagKind = "anchor"
	TagStylesheet TagKind = "stylesheet-link"
	TagScript     TagKind = "script"
	TagImg        TagKind = "img"
	TagNone       TagKind = ""
)
