package vocab

// Semantic role of a mappable object property. The role decides what kind of local field makes sense as a source.
type Role string

const (
	RoleDate       = Role("date")
	RoleTitle      = Role("title")
	RoleContent    = Role("content")
	RoleSummary    = Role("summary")
	RoleTarget     = Role("target")
	RoleReply      = Role("reply")
	RoleAttachment = Role("attachment")
)

// Protocol property names which can be filled from local fields
const (
	PropPublished  = "published"
	PropName       = "name"
	PropContent    = "content"
	PropSummary    = "summary"
	PropObject     = "object"
	PropInReplyTo  = "inReplyTo"
	PropAttachment = "attachment"
)

type PropertyDef struct {
	Name  string
	Role  Role
	Label string
}

var baseProperties = []PropertyDef{
	{Name: PropPublished, Role: RoleDate, Label: "Date"},
	{Name: PropName, Role: RoleTitle, Label: "Title"},
	{Name: PropContent, Role: RoleContent, Label: "Content"},
	{Name: PropSummary, Role: RoleSummary, Label: "Summary"},
	{Name: PropObject, Role: RoleTarget, Label: "Like/Announce/Follow target"},
	{Name: PropInReplyTo, Role: RoleReply, Label: "Reply link"},
	{Name: PropAttachment, Role: RoleAttachment, Label: "Image attachment"},
}

var catalog = map[ObjectType][]PropertyDef{
	ObjectArticle: baseProperties,
	ObjectNote:    baseProperties,
}

// Returns the mappable properties for the given object type, in display order. Unknown object types have no properties.
func Properties(obj ObjectType) []PropertyDef {
	defs := catalog[obj]
	out := make([]PropertyDef, len(defs))
	copy(out, defs)
	return out
}

// Looks up a single property definition for an object type.
func LookupProperty(obj ObjectType, name string) (PropertyDef, bool) {
	for _, def := range catalog[obj] {
		if def.Name == name {
			return def, true
		}
	}
	return PropertyDef{}, false
}

// Properties which are set by the builder itself and never overwritten from a field mapping.
func IsReservedProperty(name string) bool {
	switch name {
	case "type", "id", "attributedTo":
		return true
	}
	return false
}
