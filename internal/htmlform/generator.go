package htmlform

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// TagHandler builds the element for one occurrence of a custom tag.
type TagHandler interface {
	Build(ctx context.Context, session *FormEntrySession, attrs map[string]string) (HTMLGeneratorElement, error)
}

// TagHandlerFunc adapts a function to TagHandler.
type TagHandlerFunc func(ctx context.Context, session *FormEntrySession, attrs map[string]string) (HTMLGeneratorElement, error)

func (f TagHandlerFunc) Build(ctx context.Context, session *FormEntrySession, attrs map[string]string) (HTMLGeneratorElement, error) {
	return f(ctx, session, attrs)
}

const rootTag = "htmlform"

var voidElements = map[string]bool{
	"br": true, "hr": true, "img": true, "input": true, "meta": true, "link": true, "col": true,
}

// Generator turns a form template into HTML. Registered tags are replaced by
// the HTML of their elements; everything else is copied through.
type Generator struct {
	handlers map[string]TagHandler
}

func NewGenerator() *Generator {
	return &Generator{handlers: make(map[string]TagHandler)}
}

func (g *Generator) Register(tag string, h TagHandler) {
	g.handlers[tag] = h
}

// Generate renders the session's form. Elements that read submissions are
// added to the session's submission controller in document order.
func (g *Generator) Generate(ctx context.Context, session *FormEntrySession) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(session.Form().Template))
	dec.Strict = true

	var b strings.Builder
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse form template: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if name == rootTag {
				b.WriteString(`<div class="htmlform">`)
				continue
			}
			if h, ok := g.handlers[name]; ok {
				if err := g.expand(ctx, session, h, t, &b); err != nil {
					return "", err
				}
				if err := dec.Skip(); err != nil {
					return "", fmt.Errorf("parse form template: %w", err)
				}
				continue
			}
			b.WriteString("<" + name)
			for _, a := range t.Attr {
				fmt.Fprintf(&b, ` %s="%s"`, attrName(a.Name), escape(a.Value))
			}
			if voidElements[name] {
				b.WriteString("/>")
				if err := dec.Skip(); err != nil {
					return "", fmt.Errorf("parse form template: %w", err)
				}
				continue
			}
			b.WriteString(">")
		case xml.EndElement:
			if t.Name.Local == rootTag {
				b.WriteString("</div>")
				continue
			}
			b.WriteString("</" + t.Name.Local + ">")
		case xml.CharData:
			b.WriteString(escape(string(t)))
		}
	}
	return b.String(), nil
}

func (g *Generator) expand(ctx context.Context, session *FormEntrySession, h TagHandler, t xml.StartElement, b *strings.Builder) error {
	attrs := make(map[string]string, len(t.Attr))
	for _, a := range t.Attr {
		attrs[a.Name.Local] = a.Value
	}
	el, err := h.Build(ctx, session, attrs)
	if err != nil {
		return fmt.Errorf("<%s>: %w", t.Name.Local, err)
	}
	out, err := el.GenerateHTML(ctx, session.Context())
	if err != nil {
		return err
	}
	b.WriteString(out)
	if action, ok := el.(FormSubmissionControllerAction); ok {
		session.SubmissionController().AddAction(action)
	}
	return nil
}

func attrName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
