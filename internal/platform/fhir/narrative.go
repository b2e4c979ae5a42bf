// Package fhir holds response processing shared by the FHIR endpoints.
package fhir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ResourceNarrativeFunc renders the XHTML div for one resource type.
type ResourceNarrativeFunc func(resource map[string]interface{}) (string, error)

// NarrativeGenerator fills the text element of FHIR resources.
type NarrativeGenerator struct {
	generators map[string]ResourceNarrativeFunc
}

func NewNarrativeGenerator() *NarrativeGenerator {
	g := &NarrativeGenerator{generators: make(map[string]ResourceNarrativeFunc)}
	g.generators["Condition"] = narrativeCondition
	return g
}

func (g *NarrativeGenerator) RegisterGenerator(resourceType string, fn ResourceNarrativeFunc) {
	g.generators[resourceType] = fn
}

// Generate returns {"status": "generated", "div": ...}, or nil for a nil resource.
func (g *NarrativeGenerator) Generate(resource map[string]interface{}) map[string]interface{} {
	if resource == nil {
		return nil
	}
	var div string
	if fn, ok := g.generators[str(resource, "resourceType")]; ok {
		if out, err := fn(resource); err == nil {
			div = out
		}
	}
	if div == "" {
		div = fallbackNarrative(resource)
	}
	return map[string]interface{}{"status": "generated", "div": div}
}

// InjectNarrative sets resource["text"] unless it already carries
// author-supplied text (status "additional" or "extensions").
func (g *NarrativeGenerator) InjectNarrative(resource map[string]interface{}) map[string]interface{} {
	if resource == nil {
		return nil
	}
	if existing, ok := resource["text"].(map[string]interface{}); ok {
		switch existing["status"] {
		case "additional", "extensions":
			return resource
		}
	}
	resource["text"] = g.Generate(resource)
	return resource
}

// NarrativeMiddleware rewrites JSON resource responses to include a
// generated narrative. ?_narrative=none turns it off for a request.
func NarrativeMiddleware(generator *NarrativeGenerator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.QueryParam("_narrative") == "none" {
				return next(c)
			}

			orig := c.Response().Writer
			rec := &responseRecorder{ResponseWriter: orig, body: &bytes.Buffer{}}
			c.Response().Writer = rec
			err := next(c)
			c.Response().Writer = orig
			if err != nil {
				return err
			}

			var resource map[string]interface{}
			if !strings.Contains(c.Response().Header().Get(echo.HeaderContentType), "json") ||
				json.Unmarshal(rec.body.Bytes(), &resource) != nil || resource["resourceType"] == nil {
				_, err := orig.Write(rec.body.Bytes())
				return err
			}

			out, err := json.Marshal(generator.InjectNarrative(resource))
			if err != nil {
				_, err := orig.Write(rec.body.Bytes())
				return err
			}
			_, err = orig.Write(out)
			return err
		}
	}
}

// responseRecorder buffers the body while letting headers and status through.
type responseRecorder struct {
	http.ResponseWriter
	body *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	return r.body.Write(b)
}

func fallbackNarrative(resource map[string]interface{}) string {
	return fmt.Sprintf(`<div xmlns="http://www.w3.org/1999/xhtml"><p><b>%s</b> %s</p></div>`,
		html.EscapeString(str(resource, "resourceType")), html.EscapeString(str(resource, "id")))
}

func narrativeCondition(resource map[string]interface{}) (string, error) {
	var b strings.Builder
	b.WriteString(`<div xmlns="http://www.w3.org/1999/xhtml">`)

	code, _ := resource["code"].(map[string]interface{})
	if text := str(code, "text"); text != "" {
		fmt.Fprintf(&b, "<p><b>Condition:</b> %s</p>", html.EscapeString(text))
	}
	if status := firstCode(resource, "clinicalStatus"); status != "" {
		fmt.Fprintf(&b, "<p><b>Clinical Status:</b> %s</p>", html.EscapeString(status))
	}
	if onset := str(resource, "onsetDateTime"); onset != "" {
		fmt.Fprintf(&b, "<p><b>Onset:</b> %s</p>", html.EscapeString(onset))
	}
	if end := str(resource, "abatementDateTime"); end != "" {
		fmt.Fprintf(&b, "<p><b>Abatement:</b> %s</p>", html.EscapeString(end))
	}
	if notes, ok := resource["note"].([]interface{}); ok {
		for _, n := range notes {
			note, _ := n.(map[string]interface{})
			if text := str(note, "text"); text != "" {
				fmt.Fprintf(&b, "<p><i>%s</i></p>", html.EscapeString(text))
			}
		}
	}

	b.WriteString("</div>")
	return b.String(), nil
}

func str(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func firstCode(resource map[string]interface{}, field string) string {
	cc, _ := resource[field].(map[string]interface{})
	codings, _ := cc["coding"].([]interface{})
	if len(codings) == 0 {
		return ""
	}
	coding, _ := codings[0].(map[string]interface{})
	return str(coding, "code")
}
