// Package i18n resolves localized UI messages by key.
package i18n

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

type localeKey struct{}

// WithLocale stores the request locale on ctx.
func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, localeKey{}, tag)
}

// LocaleFromContext returns the locale stored by WithLocale.
func LocaleFromContext(ctx context.Context) (language.Tag, bool) {
	tag, ok := ctx.Value(localeKey{}).(language.Tag)
	return tag, ok
}

// MessageSource looks up messages in the bundled catalog. Keys with no
// translation render as the key itself.
type MessageSource struct {
	cat      *catalog.Builder
	matcher  language.Matcher
	tags     []language.Tag
	fallback language.Tag
}

// NewMessageSource builds the catalog; defaultLocale is used when a request
// carries no usable locale.
func NewMessageSource(defaultLocale string) (*MessageSource, error) {
	fallback, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("parse default locale %q: %w", defaultLocale, err)
	}

	cat := catalog.NewBuilder(catalog.Fallback(language.English))
	for lang, msgs := range bundled {
		tag := language.MustParse(lang)
		for key, text := range msgs {
			if err := cat.SetString(tag, key, text); err != nil {
				return nil, fmt.Errorf("register %s/%s: %w", lang, key, err)
			}
		}
	}

	// The default locale goes first so the matcher prefers it on ties.
	tags := []language.Tag{fallback}
	for _, t := range cat.Languages() {
		if t != fallback {
			tags = append(tags, t)
		}
	}

	return &MessageSource{
		cat:      cat,
		matcher:  language.NewMatcher(tags),
		tags:     tags,
		fallback: fallback,
	}, nil
}

// Match picks the best supported locale for an Accept-Language header value.
func (s *MessageSource) Match(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return s.fallback
	}
	_, idx := language.MatchStrings(s.matcher, acceptLanguage)
	return s.tags[idx]
}

// GetMessage renders key in the locale stored on ctx.
func (s *MessageSource) GetMessage(ctx context.Context, key string, args ...interface{}) string {
	tag, ok := LocaleFromContext(ctx)
	if !ok {
		tag = s.fallback
	}
	return message.NewPrinter(tag, message.Catalog(s.cat)).Sprintf(key, args...)
}

// Middleware stores the Accept-Language match on the request context.
func (s *MessageSource) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tag := s.Match(c.Request().Header.Get("Accept-Language"))
			c.SetRequest(c.Request().WithContext(WithLocale(c.Request().Context(), tag)))
			c.Response().Header().Set("Content-Language", tag.String())
			return next(c)
		}
	}
}
