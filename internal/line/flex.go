package line

// Flex message containers, modeled as plain JSON structs. Only the subset of
// the Flex format this service renders is covered. These are marshal-only;
// the service never parses Flex content back.

// FlexMessage is a rich message with a bubble container.
type FlexMessage struct {
	Type     string `json:"type"`
	AltText  string `json:"altText"`
	Contents Bubble `json:"contents"`
}

// NewFlexMessage wraps a bubble in a flex message with the given alt text.
func NewFlexMessage(altText string, contents Bubble) FlexMessage {
	return FlexMessage{Type: "flex", AltText: altText, Contents: contents}
}

// Bubble is the top-level flex container.
type Bubble struct {
	Type   string        `json:"type"`
	Body   *Box          `json:"body,omitempty"`
	Styles *BubbleStyles `json:"styles,omitempty"`
}

// BubbleStyles customizes block appearance.
type BubbleStyles struct {
	Footer *BlockStyle `json:"footer,omitempty"`
}

// BlockStyle styles a single bubble block.
type BlockStyle struct {
	Separator bool `json:"separator,omitempty"`
}

// Component is any element that can appear in a box.
type Component interface {
	flexComponent()
}

// Box lays out child components vertically or horizontally.
type Box struct {
	Type       string      `json:"type"`
	Layout     string      `json:"layout"`
	Contents   []Component `json:"contents"`
	Margin     string      `json:"margin,omitempty"`
	Spacing    string      `json:"spacing,omitempty"`
	PaddingAll string      `json:"paddingAll,omitempty"`
}

// Text is a text component.
type Text struct {
	Type   string `json:"type"`
	Text   string `json:"text"`
	Weight string `json:"weight,omitempty"`
	Size   string `json:"size,omitempty"`
	Color  string `json:"color,omitempty"`
	Align  string `json:"align,omitempty"`
	Margin string `json:"margin,omitempty"`
	Flex   *int   `json:"flex,omitempty"`
	Wrap   bool   `json:"wrap,omitempty"`
}

// Image is an image component.
type Image struct {
	Type        string `json:"type"`
	URL         string `json:"url"`
	Size        string `json:"size,omitempty"`
	AspectMode  string `json:"aspectMode,omitempty"`
	AspectRatio string `json:"aspectRatio,omitempty"`
	Gravity     string `json:"gravity,omitempty"`
}

// Separator is a horizontal rule.
type Separator struct {
	Type   string `json:"type"`
	Margin string `json:"margin,omitempty"`
}

func (Box) flexComponent()       {}
func (Text) flexComponent()      {}
func (Image) flexComponent()     {}
func (Separator) flexComponent() {}

// IntPtr returns a pointer to v, for optional numeric flex fields where zero
// is meaningful.
func IntPtr(v int) *int { return &v }
