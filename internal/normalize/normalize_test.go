package normalize_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-content-sync/internal/content"
	"github.com/goliatone/go-content-sync/internal/normalize"
	"github.com/goliatone/go-content-sync/pkg/testsupport"
)

func decode(t *testing.T, payload string) normalize.Raw {
	t.Helper()
	var raw normalize.Raw
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	return raw
}

func TestProbePrefersAttributes(t *testing.T) {
	raw := decode(t, `{"title":"flat","attributes":{"title":"nested","cta":null},"cta":"Go"}`)

	value, ok := normalize.Probe(raw, "title")
	require.True(t, ok)
	assert.Equal(t, "nested", value)

	value, ok = normalize.Probe(raw, "cta")
	require.True(t, ok)
	assert.Equal(t, "Go", value)

	_, ok = normalize.Probe(raw, "missing")
	assert.False(t, ok)
}

func TestProbeHonorsAliasPriority(t *testing.T) {
	raw := decode(t, `{"ctaUrl":"/second","attributes":{"cta_url":"/first"}}`)
	assert.Equal(t, "/first", normalize.String(raw, "cta_url", "ctaUrl"))

	raw = decode(t, `{"ctaUrl":"/second"}`)
	assert.Equal(t, "/second", normalize.String(raw, "cta_url", "ctaUrl"))

	raw = decode(t, `{"cta_url":"/flat","attributes":{"ctaUrl":"/nested"}}`)
	assert.Equal(t, "/nested", normalize.String(raw, "cta_url", "ctaUrl"))
}

func TestSlideMixedShapePrefersNested(t *testing.T) {
	raw := decode(t, `{"id":3,"Title":"stale flat","attributes":{"title":"nested","cta":"Book"}}`)
	slide := normalize.New("", nil).Slide(raw)

	assert.Equal(t, 3, slide.ID)
	assert.Equal(t, "nested", slide.Title)
	assert.Equal(t, "nested", slide.TitleAlt)
	assert.Equal(t, "Book", slide.CTALabel)
}

func TestSlideAltFallbackInBothShapes(t *testing.T) {
	n := normalize.New("https://cms.example.com/api", nil)

	nested := decode(t, `{"id":7,"documentId":"abc","attributes":{"Title":"Grow","description":"Plans","cta":"Start","order":2}}`)
	flat := decode(t, `{"id":7,"documentId":"abc","Title":"Grow","description":"Plans","cta":"Start","order":2}`)

	for name, raw := range map[string]normalize.Raw{"nested": nested, "flat": flat} {
		t.Run(name, func(t *testing.T) {
			slide := n.Slide(raw)
			assert.Equal(t, 7, slide.ID)
			assert.Equal(t, "abc", slide.DocumentID)
			assert.Equal(t, "Grow", slide.Title)
			assert.Equal(t, "Grow", slide.TitleAlt)
			assert.Equal(t, "Plans", slide.DescriptionAlt)
			assert.Equal(t, "Start", slide.CTALabelAlt)
			assert.Equal(t, "#", slide.CTAURL)
			assert.Equal(t, 2, slide.DisplayOrder)
			assert.Nil(t, slide.BackgroundImage)
		})
	}
}

func TestSlideReadsAlternateAliases(t *testing.T) {
	n := normalize.New("https://cms.example.com", nil)
	raw := decode(t, `{
		"title":"Grow","title_ar":"نمو","ctaAR":"ابدأ","cta":"Start","ctaUrl":"/contact",
		"image":{"data":{"attributes":{"url":"/uploads/hero.jpg","alternativeText":"Hero","width":1920,"height":"1080"}}},
		"mini_image":{"data":[{"url":"https://cdn.example.com/thumb.jpg"}]}
	}`)

	slide := n.Slide(raw)
	assert.Equal(t, "نمو", slide.TitleAlt)
	assert.Equal(t, "ابدأ", slide.CTALabelAlt)
	assert.Equal(t, "/contact", slide.CTAURL)
	require.NotNil(t, slide.BackgroundImage)
	assert.Equal(t, content.Image{URL: "https://cms.example.com/uploads/hero.jpg", AltText: "Hero", Width: 1920, Height: 1080}, *slide.BackgroundImage)
	require.NotNil(t, slide.ThumbnailImage)
	assert.Equal(t, "https://cdn.example.com/thumb.jpg", slide.ThumbnailImage.URL)
}

func TestImageUnwrapsOneLevelOnly(t *testing.T) {
	n := normalize.New("https://cms.example.com", nil)
	raw := decode(t, `{"image":{"data":{"data":{"url":"/deep.jpg"}}}}`)
	assert.Nil(t, n.Image(raw, "image"))

	raw = decode(t, `{"image":{"data":[]}}`)
	assert.Nil(t, n.Image(raw, "image"))

	raw = decode(t, `{"image":{"url":"uploads/flat.png"}}`)
	img := n.Image(raw, "image")
	require.NotNil(t, img)
	assert.Equal(t, "https://cms.example.com/uploads/flat.png", img.URL)
}

func TestTeamMemberDefaults(t *testing.T) {
	n := normalize.New("", nil)

	member := n.TeamMember(decode(t, `{"id":1,"name":"Sara","position":"Partner","whatsapp":"+100"}`))
	assert.True(t, member.Active)
	assert.Equal(t, "Sara", member.NameAlt)
	assert.Equal(t, "Partner", member.PositionAlt)
	assert.Equal(t, "+100", member.MessagingHandle)
	assert.Empty(t, member.Email)

	inactive := n.TeamMember(decode(t, `{"attributes":{"name":"Omar","isActive":false}}`))
	assert.False(t, inactive.Active)
}

func TestTestimonialAliases(t *testing.T) {
	n := normalize.New("", nil)
	item := n.Testimonial(decode(t, `{"quote":"Great work","author":"Lina","textAr":"عمل رائع","is_active":"false"}`))
	assert.Equal(t, "Great work", item.Quote)
	assert.Equal(t, "عمل رائع", item.QuoteAlt)
	assert.Equal(t, "Lina", item.AuthorAlt)
	assert.False(t, item.Active)
}

func TestServiceRichTextShapes(t *testing.T) {
	n := normalize.New("", nil)

	blocks := n.Service(decode(t, `{
		"title":"Audit","slug":"Tax-Audit","order":"3",
		"description":[
			{"type":"heading","level":2,"children":[{"type":"text","text":"Scope"}]},
			{"type":"paragraph","children":[{"type":"text","text":"Full "},{"type":"text","text":"review","bold":true}]},
			{"type":"list","children":[{"type":"list-item","children":[{"type":"text","text":"Item"}]}]}
		]
	}`))
	assert.Equal(t, "Tax-Audit", blocks.Slug)
	assert.Equal(t, "General", blocks.Category)
	assert.Equal(t, 3, blocks.DisplayOrder)
	require.Len(t, blocks.Description, 3)
	assert.Equal(t, content.BlockHeading, blocks.Description[0].Type)
	assert.Equal(t, 2, blocks.Description[0].Level)
	assert.Equal(t, []content.Run{{Text: "Full "}, {Text: "review", Bold: true}}, blocks.Description[1].Children)
	assert.Equal(t, "Item", blocks.Description[2].Children[0].Text)
	assert.Equal(t, blocks.Description, blocks.DescriptionAlt)

	single := n.Service(decode(t, `{"description":{"type":"paragraph","children":[{"text":"One"}]}}`))
	assert.Equal(t, "One", single.Description.PlainText())

	garbage := n.Service(decode(t, `{"description":42}`))
	assert.Empty(t, garbage.Description)
}

func TestServiceMarkdownDescription(t *testing.T) {
	n := normalize.New("", nil)
	svc := n.Service(decode(t, `{"description":"## Overview\n\nSome **bold** and *soft* words\nwrapped text"}`))

	require.Len(t, svc.Description, 2)
	assert.Equal(t, content.Block{Type: content.BlockHeading, Level: 2, Children: []content.Run{{Text: "Overview"}}}, svc.Description[0])
	assert.Equal(t, []content.Run{
		{Text: "Some "},
		{Text: "bold", Bold: true},
		{Text: " and "},
		{Text: "soft", Italic: true},
		{Text: " words wrapped text"},
	}, svc.Description[1].Children)
}

func TestNavigationDefaultsAndLogo(t *testing.T) {
	n := normalize.New("https://cms.example.com", nil)

	assert.Equal(t, content.DefaultNavigation("ar"), n.Navigation(nil, "ar"))

	nav := n.Navigation(decode(t, `{"attributes":{"title":"Acme","logo":{"data":{"attributes":{"url":"/logo.svg","width":120}}}}}`), "en")
	assert.Equal(t, "Acme", nav.Title)
	assert.Equal(t, "Acme", nav.TitleAlt)
	assert.Equal(t, "/", nav.HomeURL)
	assert.Equal(t, "en", nav.Locale)
	require.NotNil(t, nav.Logo)
	assert.Equal(t, content.Logo{URL: "https://cms.example.com/logo.svg", AltText: "Acme", Width: 120}, *nav.Logo)

	empty := n.Navigation(normalize.Raw{}, "en")
	assert.Equal(t, "LOGO", empty.Title)
}

func TestPagination(t *testing.T) {
	n := normalize.New("", nil)
	fallback := content.Pagination{Page: 2, PageSize: 9, PageCount: 1, Total: 4}

	assert.Equal(t, fallback, n.Pagination(nil, fallback))

	got := n.Pagination(decode(t, `{"pagination":{"page":3,"pageSize":6,"pageCount":5,"total":27}}`), fallback)
	assert.Equal(t, content.Pagination{Page: 3, PageSize: 6, PageCount: 5, Total: 27}, got)

	partial := n.Pagination(decode(t, `{"pagination":{"total":0}}`), fallback)
	assert.Equal(t, content.Pagination{Page: 2, PageSize: 9, PageCount: 1, Total: 0}, partial)
}

func TestBatchSkipsBadItems(t *testing.T) {
	n := normalize.New("", nil)
	items := []any{
		map[string]any{"id": float64(1)},
		"not an object",
		map[string]any{"id": float64(2)},
		map[string]any{"id": float64(3)},
	}

	out := normalize.Batch(n, "slides", items, func(raw normalize.Raw) int {
		id := normalize.Int(raw, "id")
		if id == 2 {
			panic("broken item")
		}
		return id
	})
	assert.Equal(t, []int{1, 3}, out)
}

func TestSubscriber(t *testing.T) {
	n := normalize.New("", nil)
	sub := n.Subscriber(decode(t, `{"id":9,"attributes":{"email":" a@b.co "}}`))
	assert.Equal(t, content.Subscriber{ID: 9, Email: "a@b.co"}, sub)
}

func TestTeamFixtureMatchesGolden(t *testing.T) {
	payload, err := testsupport.LoadFixture(filepath.Join("testdata", "team_v4.json"))
	require.NoError(t, err)
	var envelope struct {
		Data []any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(payload, &envelope))

	n := normalize.New("https://cms.example.com/api", nil)
	got := normalize.Batch(n, "team", envelope.Data, n.TeamMember)

	var want []content.TeamMember
	require.NoError(t, testsupport.LoadGolden(filepath.Join("testdata", "team_v4.golden.json"), &want))
	assert.Equal(t, want, got)
}
