package normalize

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/goliatone/go-content-sync/internal/content"
	"github.com/goliatone/go-content-sync/internal/logging"
	"github.com/goliatone/go-content-sync/pkg/interfaces"
)

// Field alias tables, highest priority first.
var (
	idAliases         = []string{"id"}
	documentIDAliases = []string{"documentId", "document_id"}
	orderAliases      = []string{"order", "displayOrder", "display_order"}
	activeAliases     = []string{"isActive", "is_active", "active"}

	slideTitle          = []string{"Title", "title"}
	slideTitleAlt       = []string{"titleAr", "TitleAr", "title_ar"}
	slideDescription    = []string{"description", "Description"}
	slideDescriptionAlt = []string{"descriptionAr", "description_ar"}
	slideCTA            = []string{"cta", "Cta"}
	slideCTAAlt         = []string{"ctaAr", "ctaAR", "cta_ar"}
	slideCTAURL         = []string{"cta_url", "ctaUrl", "ctaURL"}
	slideBackground     = []string{"image", "backgroundImage", "background_image"}
	slideThumbnail      = []string{"mini_image", "miniImage", "thumbnail"}

	memberName        = []string{"name", "Name"}
	memberNameAlt     = []string{"nameAr", "NameAr", "name_ar"}
	memberPosition    = []string{"position", "Position"}
	memberPositionAlt = []string{"positionAr", "PositionAr", "position_ar"}
	memberBio         = []string{"bio", "Bio"}
	memberBioAlt      = []string{"bioAr", "BioAr", "bio_ar"}
	memberMessaging   = []string{"whatsapp", "messagingHandle"}
	memberImage       = []string{"image", "photo"}

	testimonialQuote     = []string{"text", "quote"}
	testimonialQuoteAlt  = []string{"textAr", "quoteAr", "text_ar"}
	testimonialAuthor    = []string{"author", "Author"}
	testimonialAuthorAlt = []string{"authorAr", "AuthorAr", "author_ar"}
	testimonialRole      = []string{"role", "Role"}
	testimonialRoleAlt   = []string{"roleAr", "RoleAr", "role_ar"}
	testimonialImage     = []string{"image", "avatar"}

	serviceTitle          = []string{"title", "Title"}
	serviceTitleAlt       = []string{"titleAr", "TitleAr", "title_ar"}
	serviceDescription    = []string{"description", "Description"}
	serviceDescriptionAlt = []string{"descriptionAr", "description_ar"}
	serviceCategory       = []string{"category", "Category"}
	serviceImage          = []string{"image", "cover"}

	navTitle    = []string{"title", "Title"}
	navTitleAlt = []string{"titleAr", "TitleAr", "title_ar"}
	navHomeURL  = []string{"url", "homeUrl", "home_url"}
	navLogo     = []string{"logo"}
)

// Normalizer turns raw API objects into content records.
type Normalizer struct {
	origin string
	md     goldmark.Markdown
	logger interfaces.Logger
}

// New builds a normalizer. baseURL is the content API origin used to absolutize
// media paths; any path component is ignored.
func New(baseURL string, logger interfaces.Logger) *Normalizer {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Normalizer{
		origin: originOf(baseURL),
		md:     newMarkdownEngine(),
		logger: logger,
	}
}

func originOf(baseURL string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return trimmed
	}
	return parsed.Scheme + "://" + parsed.Host
}

// text reads a plain string field. Block content stored in a text field is
// flattened to its plain text.
func (n *Normalizer) text(raw Raw, aliases ...string) string {
	value, ok := Probe(raw, aliases...)
	if !ok {
		return ""
	}
	switch value.(type) {
	case []any, map[string]any:
		return n.richTextValue(value).PlainText()
	default:
		return strings.TrimSpace(asString(value))
	}
}

func (n *Normalizer) textOr(raw Raw, fallback string, aliases ...string) string {
	if value := n.text(raw, aliases...); value != "" {
		return value
	}
	return fallback
}

// Slide normalizes one hero slide.
func (n *Normalizer) Slide(raw Raw) content.Slide {
	title := n.text(raw, slideTitle...)
	description := n.text(raw, slideDescription...)
	cta := n.text(raw, slideCTA...)
	return content.Slide{
		ID:              Int(raw, idAliases...),
		DocumentID:      String(raw, documentIDAliases...),
		Title:           title,
		TitleAlt:        n.textOr(raw, title, slideTitleAlt...),
		Description:     description,
		DescriptionAlt:  n.textOr(raw, description, slideDescriptionAlt...),
		CTALabel:        cta,
		CTALabelAlt:     n.textOr(raw, cta, slideCTAAlt...),
		CTAURL:          n.textOr(raw, content.DefaultCTAURL, slideCTAURL...),
		DisplayOrder:    Int(raw, orderAliases...),
		BackgroundImage: n.Image(raw, slideBackground...),
		ThumbnailImage:  n.Image(raw, slideThumbnail...),
	}
}

// TeamMember normalizes one roster entry. Members default to active.
func (n *Normalizer) TeamMember(raw Raw) content.TeamMember {
	name := n.text(raw, memberName...)
	position := n.text(raw, memberPosition...)
	bio := n.text(raw, memberBio...)
	return content.TeamMember{
		ID:              Int(raw, idAliases...),
		DocumentID:      String(raw, documentIDAliases...),
		Name:            name,
		NameAlt:         n.textOr(raw, name, memberNameAlt...),
		Position:        position,
		PositionAlt:     n.textOr(raw, position, memberPositionAlt...),
		Bio:             bio,
		BioAlt:          n.textOr(raw, bio, memberBioAlt...),
		Email:           n.text(raw, "email"),
		Phone:           n.text(raw, "phone"),
		MessagingHandle: n.text(raw, memberMessaging...),
		DisplayOrder:    Int(raw, orderAliases...),
		Active:          Bool(raw, true, activeAliases...),
		Image:           n.Image(raw, memberImage...),
	}
}

// Testimonial normalizes one client quote.
func (n *Normalizer) Testimonial(raw Raw) content.Testimonial {
	quote := n.text(raw, testimonialQuote...)
	author := n.text(raw, testimonialAuthor...)
	role := n.text(raw, testimonialRole...)
	return content.Testimonial{
		ID:           Int(raw, idAliases...),
		DocumentID:   String(raw, documentIDAliases...),
		Quote:        quote,
		QuoteAlt:     n.textOr(raw, quote, testimonialQuoteAlt...),
		Author:       author,
		AuthorAlt:    n.textOr(raw, author, testimonialAuthorAlt...),
		Role:         role,
		RoleAlt:      n.textOr(raw, role, testimonialRoleAlt...),
		DisplayOrder: Int(raw, orderAliases...),
		Active:       Bool(raw, true, activeAliases...),
		Image:        n.Image(raw, testimonialImage...),
	}
}

// Service normalizes one service. The slug is kept verbatim.
func (n *Normalizer) Service(raw Raw) content.Service {
	title := n.text(raw, serviceTitle...)
	description := n.RichText(raw, serviceDescription...)
	descriptionAlt := n.RichText(raw, serviceDescriptionAlt...)
	if descriptionAlt.IsEmpty() {
		descriptionAlt = description
	}
	return content.Service{
		ID:             Int(raw, idAliases...),
		DocumentID:     String(raw, documentIDAliases...),
		Title:          title,
		TitleAlt:       n.textOr(raw, title, serviceTitleAlt...),
		Slug:           String(raw, "slug"),
		Description:    description,
		DescriptionAlt: descriptionAlt,
		Category:       n.textOr(raw, content.DefaultCategory, serviceCategory...),
		DisplayOrder:   Int(raw, orderAliases...),
		Image:          n.Image(raw, serviceImage...),
	}
}

// Navigation normalizes the navigation singleton for locale. A nil payload
// yields the default navigation.
func (n *Normalizer) Navigation(raw Raw, locale string) content.NavigationConfig {
	if raw == nil {
		return content.DefaultNavigation(locale)
	}
	title := n.textOr(raw, content.DefaultNavTitle, navTitle...)
	nav := content.NavigationConfig{
		Title:    title,
		TitleAlt: n.textOr(raw, title, navTitleAlt...),
		HomeURL:  n.textOr(raw, content.DefaultHomeURL, navHomeURL...),
		Locale:   n.textOr(raw, locale, "locale"),
	}
	if img := n.Image(raw, navLogo...); img != nil {
		alt := img.AltText
		if strings.TrimSpace(alt) == "" {
			alt = title
		}
		nav.Logo = &content.Logo{URL: img.URL, AltText: alt, Width: img.Width, Height: img.Height}
	}
	return nav
}

// Subscriber normalizes a stored newsletter address.
func (n *Normalizer) Subscriber(raw Raw) content.Subscriber {
	return content.Subscriber{
		ID:         Int(raw, idAliases...),
		DocumentID: String(raw, documentIDAliases...),
		Email:      strings.TrimSpace(String(raw, "email")),
	}
}

// Pagination reads meta.pagination. Missing or non-positive fields come from
// fallback.
func (n *Normalizer) Pagination(meta Raw, fallback content.Pagination) content.Pagination {
	page := Object(meta, "pagination")
	if page == nil {
		return fallback
	}
	out := fallback
	if v := Int(page, "page"); v > 0 {
		out.Page = v
	}
	if v := Int(page, "pageSize"); v > 0 {
		out.PageSize = v
	}
	if _, ok := Probe(page, "pageCount"); ok {
		out.PageCount = max(Int(page, "pageCount"), 0)
	}
	if _, ok := Probe(page, "total"); ok {
		out.Total = max(Int(page, "total"), 0)
	}
	return out
}

// Batch normalizes every object in items with fn. Non-object entries are
// skipped and a panic inside fn drops only the offending item.
func Batch[T any](n *Normalizer, kind string, items []any, fn func(Raw) T) []T {
	out := make([]T, 0, len(items))
	for index, item := range items {
		raw, ok := item.(map[string]any)
		if !ok {
			n.log().Warn("normalize.item.skipped", "kind", kind, "index", index, "type", describe(item))
			continue
		}
		if value, err := safely(raw, fn); err != nil {
			n.log().Warn("normalize.item.failed", "kind", kind, "index", index, "error", err)
		} else {
			out = append(out, value)
		}
	}
	return out
}

func safely[T any](raw Raw, fn func(Raw) T) (value T, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("normalize: recovered panic: %v", recovered)
		}
	}()
	return fn(raw), nil
}

func (n *Normalizer) log() interfaces.Logger {
	if n == nil || n.logger == nil {
		return logging.NoOp()
	}
	return n.logger
}
