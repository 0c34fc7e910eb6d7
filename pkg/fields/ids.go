package fields

// Row identifiers. Columns of one table that reference another table use the
// referenced table's identifier type, e.g. redirect.rd_from is a PageID.
type (
	PageID                uint32
	CategoryID            uint32
	LogID                 uint32
	RevisionID            uint32
	ChangeTagID           uint32
	ChangeTagDefinitionID uint32
	RecentChangeID        uint32
	ExternalLinkID        uint32
	CommentID             uint32
	ActorID               uint32
	PageRestrictionID     uint32
	UserID                uint32
)

// Namespace is a page namespace number. Negative values are virtual
// namespaces such as Special (-1) and Media (-2).
type Namespace int32

// Well known namespaces.
const (
	NamespaceMedia    Namespace = -2
	NamespaceSpecial  Namespace = -1
	NamespaceMain     Namespace = 0
	NamespaceTalk     Namespace = 1
	NamespaceUser     Namespace = 2
	NamespaceProject  Namespace = 4
	NamespaceFile     Namespace = 6
	NamespaceTemplate Namespace = 10
	NamespaceCategory Namespace = 14
	NamespaceModule   Namespace = 828
)

// IsTalk reports whether n is a talk namespace.
func (n Namespace) IsTalk() bool { return n > 0 && n%2 == 1 }

// PageCount is a signed counter such as category.cat_pages, which MediaWiki
// occasionally lets drift below zero.
type PageCount int32
