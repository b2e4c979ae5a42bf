package htmlform

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// ConditionTagHandler builds ConditionElements for <condition> tags.
//
//	<condition controlId="..." required="true" conceptId="..." showAdditionalDetail="true" label="..."/>
type ConditionTagHandler struct {
	svc Services
}

func NewConditionTagHandler(svc Services) *ConditionTagHandler {
	return &ConditionTagHandler{svc: svc}
}

func (h *ConditionTagHandler) Build(ctx context.Context, session *FormEntrySession, attrs map[string]string) (HTMLGeneratorElement, error) {
	p := ConditionParams{
		ControlID:            attrs["controlId"],
		Required:             parseBool(attrs["required"]),
		ShowAdditionalDetail: parseBool(attrs["showAdditionalDetail"]),
		Label:                attrs["label"],
	}
	if raw := strings.TrimSpace(attrs["conceptId"]); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid conceptId %q", raw)
		}
		p.ConceptID = id
	}
	el, err := NewConditionElement(ctx, session.Context(), h.svc, p)
	if err != nil {
		return nil, err
	}
	return el, nil
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(s))
	return b
}
