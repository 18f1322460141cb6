package synccmd

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-content-sync/internal/commands"
	"github.com/goliatone/go-content-sync/internal/repository"
	"github.com/goliatone/go-content-sync/pkg/interfaces"
)

const refreshContentMessageType = "sync.content.refresh"

// RefreshContentCommand drops cached content for the named tags. No tags
// means every tag. Warm re-reads the dropped collections right away.
type RefreshContentCommand struct {
	Tags    []string `json:"tags,omitempty"`
	Warm    bool     `json:"warm,omitempty"`
	Locales []string `json:"locales,omitempty"`
}

// Type implements command.Message.
func (RefreshContentCommand) Type() string { return refreshContentMessageType }

// Validate rejects unknown tag names.
func (m RefreshContentCommand) Validate() error {
	errs := validation.Errors{}
	for i, name := range m.Tags {
		if _, ok := repository.ParseTag(name); !ok {
			errs[fmt.Sprintf("tags.%d", i)] = validation.NewError("sync.content.refresh.tag_unknown", fmt.Sprintf("unknown tag %q", name))
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParsedTags returns the requested tags, or every tag when none were named.
func (m RefreshContentCommand) ParsedTags() []repository.Tag {
	if len(m.Tags) == 0 {
		return append([]repository.Tag(nil), repository.AllTags...)
	}
	tags := make([]repository.Tag, 0, len(m.Tags))
	for _, name := range m.Tags {
		if tag, ok := repository.ParseTag(name); ok {
			tags = append(tags, tag)
		}
	}
	return tags
}

// RefreshContentHandler invalidates and optionally re-warms the content
// cache.
type RefreshContentHandler struct {
	inner *commands.Handler[RefreshContentCommand]
}

// NewRefreshContentHandler wires the handler to a content repository.
// defaultLocales are warmed for navigation when the command names none.
func NewRefreshContentHandler(service repository.Service, logger interfaces.Logger, defaultLocales []string, opts ...commands.HandlerOption[RefreshContentCommand]) *RefreshContentHandler {
	exec := func(ctx context.Context, msg RefreshContentCommand) error {
		tags := msg.ParsedTags()
		service.Invalidate(ctx, tags...)
		if !msg.Warm {
			return nil
		}
		locales := msg.Locales
		if len(locales) == 0 {
			locales = defaultLocales
		}
		warm(ctx, service, tags, locales)
		return nil
	}

	handlerOpts := []commands.HandlerOption[RefreshContentCommand]{
		commands.WithLogger[RefreshContentCommand](logger),
		commands.WithOperation[RefreshContentCommand]("content.refresh"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RefreshContentHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RefreshContentCommand].Execute.
func (h *RefreshContentHandler) Execute(ctx context.Context, msg RefreshContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

func warm(ctx context.Context, service repository.Service, tags []repository.Tag, locales []string) {
	for _, tag := range tags {
		switch tag {
		case repository.TagSlides:
			service.ListSlides(ctx)
		case repository.TagTeamMembers:
			service.ListTeamMembers(ctx)
		case repository.TagTestimonials:
			service.ListTestimonials(ctx)
		case repository.TagServices:
			service.ListServices(ctx)
		case repository.TagNavigation:
			for _, loc := range locales {
				service.GetNavigation(ctx, loc)
			}
		}
	}
}
