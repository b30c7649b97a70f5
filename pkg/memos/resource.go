package memos

import (
	"strings"

	"go.einride.tech/aip/resourcename"
)

/*
ResourceName identifies a Memos resource, e.g. "memos/123" or
"users/me/webhooks/7". It doubles as the request path suffix, so it is
treated as opaque: it is built by joining a collection and an id, or taken
verbatim from the server or the caller, and never parsed.
*/
type ResourceName string

// NewResourceName joins a collection and an id with a single slash.
func NewResourceName(collection, id string) ResourceName {
	return ResourceName(strings.TrimSuffix(collection, "/") + "/" + id)
}

// FormatResourceName fills the {variables} of an AIP resource pattern.
func FormatResourceName(pattern string, variables ...string) ResourceName {
	return ResourceName(resourcename.Sprint(pattern, variables...))
}

// UserName returns the resource name of a user id, "me" included.
func UserName(user string) ResourceName {
	return FormatResourceName("users/{user}", user)
}

// Child appends a sub-collection and id below this resource.
func (n ResourceName) Child(collection, id string) ResourceName {
	return NewResourceName(string(n)+"/"+collection, id)
}

// Collection appends a bare sub-collection, for list and create calls.
func (n ResourceName) Collection(collection string) string {
	return n.Path() + "/" + collection
}

// Path is the name as a leading-slash request path.
func (n ResourceName) Path() string {
	return "/" + strings.TrimPrefix(string(n), "/")
}

func (n ResourceName) String() string {
	return string(n)
}

/*
UpdateMask lists the fields a partial update touches, in the order they were
added. Every field placed in an update payload needs an entry here, and an
empty mask is never sent.
*/
type UpdateMask []string

// ParseUpdateMask splits a comma-separated field list, trimming blanks.
func ParseUpdateMask(raw string) UpdateMask {
	var mask UpdateMask

	for _, field := range strings.Split(raw, ",") {
		if field = strings.TrimSpace(field); field != "" {
			mask = mask.Add(field)
		}
	}

	return mask
}

// Add appends a field once.
func (m UpdateMask) Add(field string) UpdateMask {
	if m.Has(field) {
		return m
	}
	return append(m, field)
}

// Has reports whether field is already in the mask.
func (m UpdateMask) Has(field string) bool {
	for _, existing := range m {
		if existing == field {
			return true
		}
	}
	return false
}

// Empty reports whether no fields were touched.
func (m UpdateMask) Empty() bool {
	return len(m) == 0
}

// String is the comma-joined form used as the updateMask query value.
func (m UpdateMask) String() string {
	return strings.Join(m, ",")
}
