package content

// Image is a resolved media reference. URL is always absolute.
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

// Logo is the navigation brand mark.
type Logo struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

// Slide is one hero carousel entry.
type Slide struct {
	ID              int    `json:"id"`
	DocumentID      string `json:"documentId,omitempty"`
	Title           string `json:"title"`
	TitleAlt        string `json:"titleAlt"`
	Description     string `json:"description"`
	DescriptionAlt  string `json:"descriptionAlt"`
	CTALabel        string `json:"ctaLabel"`
	CTALabelAlt     string `json:"ctaLabelAlt"`
	CTAURL          string `json:"ctaUrl"`
	DisplayOrder    int    `json:"displayOrder"`
	BackgroundImage *Image `json:"backgroundImage,omitempty"`
	ThumbnailImage  *Image `json:"thumbnailImage,omitempty"`
}

// TeamMember is one roster entry. Contact fields are optional.
type TeamMember struct {
	ID              int    `json:"id"`
	DocumentID      string `json:"documentId,omitempty"`
	Name            string `json:"name"`
	NameAlt         string `json:"nameAlt"`
	Position        string `json:"position"`
	PositionAlt     string `json:"positionAlt"`
	Bio             string `json:"bio,omitempty"`
	BioAlt          string `json:"bioAlt,omitempty"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	MessagingHandle string `json:"messagingHandle,omitempty"`
	DisplayOrder    int    `json:"displayOrder"`
	Active          bool   `json:"active"`
	Image           *Image `json:"image,omitempty"`
}

// Testimonial is one client quote.
type Testimonial struct {
	ID           int    `json:"id"`
	DocumentID   string `json:"documentId,omitempty"`
	Quote        string `json:"quote"`
	QuoteAlt     string `json:"quoteAlt"`
	Author       string `json:"author"`
	AuthorAlt    string `json:"authorAlt"`
	Role         string `json:"role"`
	RoleAlt      string `json:"roleAlt"`
	DisplayOrder int    `json:"displayOrder"`
	Active       bool   `json:"active"`
	Image        *Image `json:"image,omitempty"`
}

// Service is one offering. Slug is kept exactly as the API returned it.
type Service struct {
	ID             int      `json:"id"`
	DocumentID     string   `json:"documentId,omitempty"`
	Title          string   `json:"title"`
	TitleAlt       string   `json:"titleAlt"`
	Slug           string   `json:"slug"`
	Description    RichText `json:"description"`
	DescriptionAlt RichText `json:"descriptionAlt"`
	Category       string   `json:"category"`
	DisplayOrder   int      `json:"displayOrder"`
	Image          *Image   `json:"image,omitempty"`
}

// NavigationConfig is the per-locale navigation singleton.
type NavigationConfig struct {
	Title    string `json:"title"`
	TitleAlt string `json:"titleAlt"`
	HomeURL  string `json:"homeUrl"`
	Locale   string `json:"locale,omitempty"`
	Logo     *Logo  `json:"logo,omitempty"`
}

// Pagination mirrors the page metadata of a paged listing.
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// ServicePage is one page of services.
type ServicePage struct {
	Items      []Service  `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Subscriber is a stored newsletter address.
type Subscriber struct {
	ID         int    `json:"id"`
	DocumentID string `json:"documentId,omitempty"`
	Email      string `json:"email"`
}

// SubscriptionResult is the outcome of a subscribe call. Kind is empty on
// success.
type SubscriptionResult struct {
	Success    bool        `json:"success"`
	Kind       ErrorKind   `json:"kind,omitempty"`
	Message    string      `json:"message,omitempty"`
	Subscriber *Subscriber `json:"subscriber,omitempty"`
}

const (
	DefaultCTAURL        = "#"
	DefaultCategory      = "General"
	DefaultNavTitle      = "LOGO"
	DefaultHomeURL       = "/"
	DefaultExcerptLength = 150
)

// DefaultNavigation is served whenever the navigation singleton cannot be
// fetched or decoded.
func DefaultNavigation(locale string) NavigationConfig {
	return NavigationConfig{
		Title:    DefaultNavTitle,
		TitleAlt: DefaultNavTitle,
		HomeURL:  DefaultHomeURL,
		Locale:   locale,
	}
}
