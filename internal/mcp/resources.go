package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/liftadapt/internal/accessory"
	"github.com/claude/liftadapt/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

var libraryFoci = []models.AestheticFocus{
	models.FocusVTaper,
	models.FocusGlutes,
	models.FocusToned,
	models.FocusFunctional,
}

func (h *handlers) accessoryLibrary(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	lib := h.engines.Library()
	catalog := make(map[models.AestheticFocus][]accessory.Entry, len(libraryFoci))
	for _, f := range libraryFoci {
		entries := lib.Entries(f)
		if entries == nil {
			entries = []accessory.Entry{}
		}
		catalog[f] = entries
	}

	data, err := json.Marshal(catalog)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
