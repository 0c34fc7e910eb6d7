package schema

import (
	f "github.com/bisegni/dumpscan/pkg/fields"
)

// Row types for the MediaWiki tables published in Wikimedia SQL dumps. Field
// order follows the column order of the dumps.

type Category struct {
	ID      f.CategoryID `json:"id"`
	Title   f.Title      `json:"title"`
	Pages   f.PageCount  `json:"pages"`
	Subcats f.PageCount  `json:"subcats"`
	Files   f.PageCount  `json:"files"`
}

type CategoryLink struct {
	From          f.PageID    `json:"from"`
	To            f.Title     `json:"to"`
	SortKey       f.Blob      `json:"sortkey"`
	Timestamp     f.Timestamp `json:"timestamp"`
	SortKeyPrefix f.Blob      `json:"sortkey_prefix"`
	Collation     string      `json:"collation"`
	Type          f.PageType  `json:"type"`
}

type ChangeTagDefinition struct {
	ID          f.ChangeTagDefinitionID `json:"id"`
	Name        string                  `json:"name"`
	UserDefined bool                    `json:"user_defined"`
	Count       uint64                  `json:"count"`
}

type ChangeTag struct {
	ID             f.ChangeTagID                       `json:"id"`
	RecentChangeID f.Nullable[f.RecentChangeID]        `json:"recent_change_id"`
	LogID          f.Nullable[f.LogID]                 `json:"log_id"`
	RevisionID     f.Nullable[f.RevisionID]            `json:"revision_id"`
	Params         f.Nullable[f.Blob]                  `json:"params"`
	TagID          f.Nullable[f.ChangeTagDefinitionID] `json:"tag_id"`
}

type ExternalLink struct {
	ID      f.ExternalLinkID `json:"id"`
	From    f.PageID         `json:"from"`
	To      f.Blob           `json:"to"`
	Index   f.Blob           `json:"index"`
	Index60 f.Blob           `json:"index_60"`
}

type Image struct {
	Name          f.Title     `json:"name"`
	Size          uint64      `json:"size"`
	Width         int32       `json:"width"`
	Height        int32       `json:"height"`
	Metadata      f.Blob      `json:"metadata"`
	Bits          int32       `json:"bits"`
	MediaType     f.MediaType `json:"media_type"`
	MajorMime     f.MajorMime `json:"major_mime"`
	MinorMime     f.MinorMime `json:"minor_mime"`
	DescriptionID f.CommentID `json:"description_id"`
	Actor         f.ActorID   `json:"actor"`
	Timestamp     f.Timestamp `json:"timestamp"`
	Sha1          f.Sha1      `json:"sha1"`
	Deleted       int8        `json:"deleted"`
}

type ImageLink struct {
	From          f.PageID    `json:"from"`
	FromNamespace f.Namespace `json:"from_namespace"`
	To            f.Title     `json:"to"`
}

type InterwikiLink struct {
	From   f.PageID `json:"from"`
	Prefix string   `json:"prefix"`
	Title  f.Title  `json:"title"`
}

type LanguageLink struct {
	From  f.PageID          `json:"from"`
	Lang  f.CaseInsensitive `json:"lang"`
	Title f.FullTitle       `json:"title"`
}

type Page struct {
	ID           f.PageID                      `json:"id"`
	Namespace    f.Namespace                   `json:"namespace"`
	Title        f.Title                       `json:"title"`
	IsRedirect   bool                          `json:"is_redirect"`
	IsNew        bool                          `json:"is_new"`
	Random       f.OrderedFloat                `json:"random"`
	Touched      f.Timestamp                   `json:"touched"`
	LinksUpdated f.Nullable[f.Timestamp]       `json:"links_updated"`
	Latest       f.RevisionID                  `json:"latest"`
	Len          uint32                        `json:"len"`
	ContentModel f.Nullable[f.ContentModel]    `json:"content_model"`
	Lang         f.Nullable[f.CaseInsensitive] `json:"lang"`
}

type PageLink struct {
	From          f.PageID    `json:"from"`
	FromNamespace f.Namespace `json:"from_namespace"`
	Namespace     f.Namespace `json:"namespace"`
	Title         f.Title     `json:"title"`
}

type PageProp struct {
	Page    f.PageID                   `json:"page"`
	Name    string                     `json:"propname"`
	Value   f.Blob                     `json:"value"`
	SortKey f.Nullable[f.OrderedFloat] `json:"sortkey"`
}

type PageRestriction struct {
	Page    f.PageID             `json:"page"`
	Type    f.PageAction         `json:"type"`
	Level   f.ProtectionLevel    `json:"level"`
	Cascade bool                 `json:"cascade"`
	User    f.Nullable[f.UserID] `json:"user"`
	Expiry  f.Nullable[f.Expiry] `json:"expiry"`
	ID      f.PageRestrictionID  `json:"id"`
}

type ProtectedTitle struct {
	Namespace  f.Namespace       `json:"namespace"`
	Title      f.Title           `json:"title"`
	User       f.UserID          `json:"user"`
	ReasonID   f.CommentID       `json:"reason_id"`
	Timestamp  f.Timestamp       `json:"timestamp"`
	Expiry     f.Expiry          `json:"expiry"`
	CreatePerm f.ProtectionLevel `json:"create_perm"`
}

type Redirect struct {
	From      f.PageID           `json:"from"`
	Namespace f.Namespace        `json:"namespace"`
	Title     f.Title            `json:"title"`
	Interwiki f.Nullable[string] `json:"interwiki"`
	Fragment  f.Nullable[string] `json:"fragment"`
}

type Site struct {
	ID        uint32            `json:"id"`
	GlobalKey f.CaseInsensitive `json:"global_key"`
	Type      string            `json:"type"`
	Group     string            `json:"group"`
	Source    string            `json:"source"`
	Language  string            `json:"language"`
	Protocol  string            `json:"protocol"`
	Domain    f.Blob            `json:"domain"`
	Data      f.Blob            `json:"data"`
	Forward   bool              `json:"forward"`
	Config    f.Blob            `json:"config"`
}

type SiteStats struct {
	RowID        uint32             `json:"row_id"`
	TotalEdits   f.Nullable[uint64] `json:"total_edits"`
	GoodArticles f.Nullable[uint64] `json:"good_articles"`
	TotalPages   f.Nullable[uint64] `json:"total_pages"`
	Users        f.Nullable[uint64] `json:"users"`
	ActiveUsers  f.Nullable[uint64] `json:"active_users"`
	Images       f.Nullable[uint64] `json:"images"`
}

type TemplateLink struct {
	From          f.PageID    `json:"from"`
	Namespace     f.Namespace `json:"namespace"`
	Title         f.Title     `json:"title"`
	FromNamespace f.Namespace `json:"from_namespace"`
}

type UserFormerGroup struct {
	User  f.UserID    `json:"user"`
	Group f.UserGroup `json:"group"`
}

type UserGroup struct {
	User   f.UserID             `json:"user"`
	Group  f.UserGroup          `json:"group"`
	Expiry f.Nullable[f.Expiry] `json:"expiry"`
}

type EntityUsage struct {
	RowID    uint64   `json:"row_id"`
	EntityID string   `json:"entity_id"`
	Aspect   string   `json:"aspect"`
	PageID   f.PageID `json:"page_id"`
}

var (
	pageID    = f.Integer[f.PageID]
	namespace = f.Integer[f.Namespace]
	userID    = f.Integer[f.UserID]
	maybeU64  = f.Null(f.Integer[uint64])
	expiry    = f.Null(f.ParseExpiry)
)

var CategoryTable = New("category",
	Field("cat_id", func(r *Category) *f.CategoryID { return &r.ID }, f.Integer[f.CategoryID]),
	Field("cat_title", func(r *Category) *f.Title { return &r.Title }, f.ParseTitle),
	Field("cat_pages", func(r *Category) *f.PageCount { return &r.Pages }, f.Integer[f.PageCount]),
	Field("cat_subcats", func(r *Category) *f.PageCount { return &r.Subcats }, f.Integer[f.PageCount]),
	Field("cat_files", func(r *Category) *f.PageCount { return &r.Files }, f.Integer[f.PageCount]),
)

var CategoryLinksTable = New("categorylinks",
	Field("cl_from", func(r *CategoryLink) *f.PageID { return &r.From }, pageID),
	Field("cl_to", func(r *CategoryLink) *f.Title { return &r.To }, f.ParseTitle),
	Field("cl_sortkey", func(r *CategoryLink) *f.Blob { return &r.SortKey }, f.Bytes),
	Field("cl_timestamp", func(r *CategoryLink) *f.Timestamp { return &r.Timestamp }, f.ParseTimestamp),
	Field("cl_sortkey_prefix", func(r *CategoryLink) *f.Blob { return &r.SortKeyPrefix }, f.Bytes),
	Field("cl_collation", func(r *CategoryLink) *string { return &r.Collation }, f.String),
	Field("cl_type", func(r *CategoryLink) *f.PageType { return &r.Type }, f.ParsePageType),
)

var ChangeTagDefinitionTable = New("change_tag_def",
	Field("ctd_id", func(r *ChangeTagDefinition) *f.ChangeTagDefinitionID { return &r.ID }, f.Integer[f.ChangeTagDefinitionID]),
	Field("ctd_name", func(r *ChangeTagDefinition) *string { return &r.Name }, f.String),
	Field("ctd_user_defined", func(r *ChangeTagDefinition) *bool { return &r.UserDefined }, f.Bool),
	Field("ctd_count", func(r *ChangeTagDefinition) *uint64 { return &r.Count }, f.Integer[uint64]),
)

var ChangeTagTable = New("change_tag",
	Field("ct_id", func(r *ChangeTag) *f.ChangeTagID { return &r.ID }, f.Integer[f.ChangeTagID]),
	Field("ct_rc_id", func(r *ChangeTag) *f.Nullable[f.RecentChangeID] { return &r.RecentChangeID }, f.Null(f.Integer[f.RecentChangeID])),
	Field("ct_log_id", func(r *ChangeTag) *f.Nullable[f.LogID] { return &r.LogID }, f.Null(f.Integer[f.LogID])),
	Field("ct_rev_id", func(r *ChangeTag) *f.Nullable[f.RevisionID] { return &r.RevisionID }, f.Null(f.Integer[f.RevisionID])),
	Field("ct_params", func(r *ChangeTag) *f.Nullable[f.Blob] { return &r.Params }, f.Null(f.Bytes)),
	Field("ct_tag_id", func(r *ChangeTag) *f.Nullable[f.ChangeTagDefinitionID] { return &r.TagID }, f.Null(f.Integer[f.ChangeTagDefinitionID])),
)

var ExternalLinksTable = New("externallinks",
	Field("el_id", func(r *ExternalLink) *f.ExternalLinkID { return &r.ID }, f.Integer[f.ExternalLinkID]),
	Field("el_from", func(r *ExternalLink) *f.PageID { return &r.From }, pageID),
	Field("el_to", func(r *ExternalLink) *f.Blob { return &r.To }, f.Bytes),
	Field("el_index", func(r *ExternalLink) *f.Blob { return &r.Index }, f.Bytes),
	Field("el_index_60", func(r *ExternalLink) *f.Blob { return &r.Index60 }, f.Bytes),
)

var ImageTable = New("image",
	Field("img_name", func(r *Image) *f.Title { return &r.Name }, f.ParseTitle),
	Field("img_size", func(r *Image) *uint64 { return &r.Size }, f.Integer[uint64]),
	Field("img_width", func(r *Image) *int32 { return &r.Width }, f.Integer[int32]),
	Field("img_height", func(r *Image) *int32 { return &r.Height }, f.Integer[int32]),
	Field("img_metadata", func(r *Image) *f.Blob { return &r.Metadata }, f.Bytes),
	Field("img_bits", func(r *Image) *int32 { return &r.Bits }, f.Integer[int32]),
	Field("img_media_type", func(r *Image) *f.MediaType { return &r.MediaType }, f.Text[f.MediaType]),
	Field("img_major_mime", func(r *Image) *f.MajorMime { return &r.MajorMime }, f.Text[f.MajorMime]),
	Field("img_minor_mime", func(r *Image) *f.MinorMime { return &r.MinorMime }, f.Text[f.MinorMime]),
	Field("img_description_id", func(r *Image) *f.CommentID { return &r.DescriptionID }, f.Integer[f.CommentID]),
	Field("img_actor", func(r *Image) *f.ActorID { return &r.Actor }, f.Integer[f.ActorID]),
	Field("img_timestamp", func(r *Image) *f.Timestamp { return &r.Timestamp }, f.ParseTimestamp),
	Field("img_sha1", func(r *Image) *f.Sha1 { return &r.Sha1 }, f.Text[f.Sha1]),
	Field("img_deleted", func(r *Image) *int8 { return &r.Deleted }, f.Integer[int8]),
)

var ImageLinksTable = New("imagelinks",
	Field("il_from", func(r *ImageLink) *f.PageID { return &r.From }, pageID),
	Field("il_from_namespace", func(r *ImageLink) *f.Namespace { return &r.FromNamespace }, namespace),
	Field("il_to", func(r *ImageLink) *f.Title { return &r.To }, f.ParseTitle),
)

var InterwikiLinksTable = New("iwlinks",
	Field("iwl_from", func(r *InterwikiLink) *f.PageID { return &r.From }, pageID),
	Field("iwl_prefix", func(r *InterwikiLink) *string { return &r.Prefix }, f.String),
	Field("iwl_title", func(r *InterwikiLink) *f.Title { return &r.Title }, f.ParseTitle),
)

var LanguageLinksTable = New("langlinks",
	Field("ll_from", func(r *LanguageLink) *f.PageID { return &r.From }, pageID),
	Field("ll_lang", func(r *LanguageLink) *f.CaseInsensitive { return &r.Lang }, f.Text[f.CaseInsensitive]),
	Field("ll_title", func(r *LanguageLink) *f.FullTitle { return &r.Title }, f.Text[f.FullTitle]),
)

var PageTable = New("page",
	Field("page_id", func(r *Page) *f.PageID { return &r.ID }, pageID),
	Field("page_namespace", func(r *Page) *f.Namespace { return &r.Namespace }, namespace),
	Field("page_title", func(r *Page) *f.Title { return &r.Title }, f.ParseTitle),
	Field("page_is_redirect", func(r *Page) *bool { return &r.IsRedirect }, f.Bool),
	Field("page_is_new", func(r *Page) *bool { return &r.IsNew }, f.Bool),
	Field("page_random", func(r *Page) *f.OrderedFloat { return &r.Random }, f.Float),
	Field("page_touched", func(r *Page) *f.Timestamp { return &r.Touched }, f.ParseTimestamp),
	Field("page_links_updated", func(r *Page) *f.Nullable[f.Timestamp] { return &r.LinksUpdated }, f.Null(f.ParseTimestamp)),
	Field("page_latest", func(r *Page) *f.RevisionID { return &r.Latest }, f.Integer[f.RevisionID]),
	Field("page_len", func(r *Page) *uint32 { return &r.Len }, f.Integer[uint32]),
	Field("page_content_model", func(r *Page) *f.Nullable[f.ContentModel] { return &r.ContentModel }, f.Null(f.Text[f.ContentModel])),
	Field("page_lang", func(r *Page) *f.Nullable[f.CaseInsensitive] { return &r.Lang }, f.Null(f.Text[f.CaseInsensitive])),
)

var PageLinksTable = New("pagelinks",
	Field("pl_from", func(r *PageLink) *f.PageID { return &r.From }, pageID),
	Field("pl_from_namespace", func(r *PageLink) *f.Namespace { return &r.FromNamespace }, namespace),
	Field("pl_namespace", func(r *PageLink) *f.Namespace { return &r.Namespace }, namespace),
	Field("pl_title", func(r *PageLink) *f.Title { return &r.Title }, f.ParseTitle),
)

var PagePropsTable = New("page_props",
	Field("pp_page", func(r *PageProp) *f.PageID { return &r.Page }, pageID),
	Field("pp_propname", func(r *PageProp) *string { return &r.Name }, f.String),
	Field("pp_value", func(r *PageProp) *f.Blob { return &r.Value }, f.Bytes),
	Field("pp_sortkey", func(r *PageProp) *f.Nullable[f.OrderedFloat] { return &r.SortKey }, f.Null(f.Float)),
)

var PageRestrictionsTable = New("page_restrictions",
	Field("pr_page", func(r *PageRestriction) *f.PageID { return &r.Page }, pageID),
	Field("pr_type", func(r *PageRestriction) *f.PageAction { return &r.Type }, f.Text[f.PageAction]),
	Field("pr_level", func(r *PageRestriction) *f.ProtectionLevel { return &r.Level }, f.Text[f.ProtectionLevel]),
	Field("pr_cascade", func(r *PageRestriction) *bool { return &r.Cascade }, f.Bool),
	Field("pr_user", func(r *PageRestriction) *f.Nullable[f.UserID] { return &r.User }, f.Null(userID)),
	Field("pr_expiry", func(r *PageRestriction) *f.Nullable[f.Expiry] { return &r.Expiry }, expiry),
	Field("pr_id", func(r *PageRestriction) *f.PageRestrictionID { return &r.ID }, f.Integer[f.PageRestrictionID]),
)

var ProtectedTitlesTable = New("protected_titles",
	Field("pt_namespace", func(r *ProtectedTitle) *f.Namespace { return &r.Namespace }, namespace),
	Field("pt_title", func(r *ProtectedTitle) *f.Title { return &r.Title }, f.ParseTitle),
	Field("pt_user", func(r *ProtectedTitle) *f.UserID { return &r.User }, userID),
	Field("pt_reason_id", func(r *ProtectedTitle) *f.CommentID { return &r.ReasonID }, f.Integer[f.CommentID]),
	Field("pt_timestamp", func(r *ProtectedTitle) *f.Timestamp { return &r.Timestamp }, f.ParseTimestamp),
	Field("pt_expiry", func(r *ProtectedTitle) *f.Expiry { return &r.Expiry }, f.ParseExpiry),
	Field("pt_create_perm", func(r *ProtectedTitle) *f.ProtectionLevel { return &r.CreatePerm }, f.Text[f.ProtectionLevel]),
)

var RedirectTable = New("redirect",
	Field("rd_from", func(r *Redirect) *f.PageID { return &r.From }, pageID),
	Field("rd_namespace", func(r *Redirect) *f.Namespace { return &r.Namespace }, namespace),
	Field("rd_title", func(r *Redirect) *f.Title { return &r.Title }, f.ParseTitle),
	Field("rd_interwiki", func(r *Redirect) *f.Nullable[string] { return &r.Interwiki }, f.Null(f.String)),
	Field("rd_fragment", func(r *Redirect) *f.Nullable[string] { return &r.Fragment }, f.Null(f.String)),
)

var SitesTable = New("sites",
	Field("site_id", func(r *Site) *uint32 { return &r.ID }, f.Integer[uint32]),
	Field("site_global_key", func(r *Site) *f.CaseInsensitive { return &r.GlobalKey }, f.Text[f.CaseInsensitive]),
	Field("site_type", func(r *Site) *string { return &r.Type }, f.String),
	Field("site_group", func(r *Site) *string { return &r.Group }, f.String),
	Field("site_source", func(r *Site) *string { return &r.Source }, f.String),
	Field("site_language", func(r *Site) *string { return &r.Language }, f.String),
	Field("site_protocol", func(r *Site) *string { return &r.Protocol }, f.String),
	Field("site_domain", func(r *Site) *f.Blob { return &r.Domain }, f.Bytes),
	Field("site_data", func(r *Site) *f.Blob { return &r.Data }, f.Bytes),
	Field("site_forward", func(r *Site) *bool { return &r.Forward }, f.Bool),
	Field("site_config", func(r *Site) *f.Blob { return &r.Config }, f.Bytes),
)

var SiteStatsTable = New("site_stats",
	Field("ss_row_id", func(r *SiteStats) *uint32 { return &r.RowID }, f.Integer[uint32]),
	Field("ss_total_edits", func(r *SiteStats) *f.Nullable[uint64] { return &r.TotalEdits }, maybeU64),
	Field("ss_good_articles", func(r *SiteStats) *f.Nullable[uint64] { return &r.GoodArticles }, maybeU64),
	Field("ss_total_pages", func(r *SiteStats) *f.Nullable[uint64] { return &r.TotalPages }, maybeU64),
	Field("ss_users", func(r *SiteStats) *f.Nullable[uint64] { return &r.Users }, maybeU64),
	Field("ss_active_users", func(r *SiteStats) *f.Nullable[uint64] { return &r.ActiveUsers }, maybeU64),
	Field("ss_images", func(r *SiteStats) *f.Nullable[uint64] { return &r.Images }, maybeU64),
)

var TemplateLinksTable = New("templatelinks",
	Field("tl_from", func(r *TemplateLink) *f.PageID { return &r.From }, pageID),
	Field("tl_namespace", func(r *TemplateLink) *f.Namespace { return &r.Namespace }, namespace),
	Field("tl_title", func(r *TemplateLink) *f.Title { return &r.Title }, f.ParseTitle),
	Field("tl_from_namespace", func(r *TemplateLink) *f.Namespace { return &r.FromNamespace }, namespace),
)

var UserFormerGroupsTable = New("user_former_groups",
	Field("ufg_user", func(r *UserFormerGroup) *f.UserID { return &r.User }, userID),
	Field("ufg_group", func(r *UserFormerGroup) *f.UserGroup { return &r.Group }, f.Text[f.UserGroup]),
)

var UserGroupsTable = New("user_groups",
	Field("ug_user", func(r *UserGroup) *f.UserID { return &r.User }, userID),
	Field("ug_group", func(r *UserGroup) *f.UserGroup { return &r.Group }, f.Text[f.UserGroup]),
	Field("ug_expiry", func(r *UserGroup) *f.Nullable[f.Expiry] { return &r.Expiry }, expiry),
)

var EntityUsageTable = New("wbc_entity_usage",
	Field("eu_row_id", func(r *EntityUsage) *uint64 { return &r.RowID }, f.Integer[uint64]),
	Field("eu_entity_id", func(r *EntityUsage) *string { return &r.EntityID }, f.String),
	Field("eu_aspect", func(r *EntityUsage) *string { return &r.Aspect }, f.String),
	Field("eu_page_id", func(r *EntityUsage) *f.PageID { return &r.PageID }, pageID),
)

func init() {
	for _, t := range []Any{
		CategoryTable, CategoryLinksTable, ChangeTagDefinitionTable, ChangeTagTable,
		ExternalLinksTable, ImageTable, ImageLinksTable, InterwikiLinksTable,
		LanguageLinksTable, PageTable, PageLinksTable, PagePropsTable,
		PageRestrictionsTable, ProtectedTitlesTable, RedirectTable, SitesTable,
		SiteStatsTable, TemplateLinksTable, UserFormerGroupsTable, UserGroupsTable,
		EntityUsageTable,
	} {
		Register(t)
	}
}
