package valence

// PagingInfo is the cursor block of a paged response.
type PagingInfo struct {
	Bookmark     string
	HasMoreItems bool
}

// PagedResultSet is one page of a list route. Callers continue by passing
// Bookmark() back to the same route; nothing is fetched automatically.
type PagedResultSet[T any] struct {
	PagingInfo PagingInfo
	Items      []T
}

// HasMoreItems reports whether another page is available.
func (p *PagedResultSet[T]) HasMoreItems() bool { return p.PagingInfo.HasMoreItems }

// Bookmark returns the cursor for the next page.
func (p *PagedResultSet[T]) Bookmark() string { return p.PagingInfo.Bookmark }

// RichText is the Text/Html pair returned for formatted fields.
type RichText struct {
	Text string
	Html string
}

// RichTextInput is the Content/Type pair accepted by write routes.
type RichTextInput struct {
	Content string
	Type    string // Text or Html
}

// NewRichTextInput returns a Text or Html input.
func NewRichTextInput(content string, isHTML bool) RichTextInput {
	if isHTML {
		return RichTextInput{Content: content, Type: "Html"}
	}
	return RichTextInput{Content: content, Type: "Text"}
}
